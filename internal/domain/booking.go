package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type MealOption string

const (
	MealVeg    MealOption = "VEG"
	MealNonVeg MealOption = "NON_VEG"
	MealNone   MealOption = "NONE"
)

type Passenger struct {
	FullName   string     `json:"full_name"`
	Gender     Gender     `json:"gender"`
	Age        int        `json:"age"`
	SeatNumber string     `json:"seat_number"`
	MealOption MealOption `json:"meal_option"`
}

// Booking is one confirmed reservation attempt. Status only ever moves
// CONFIRMED -> CANCELLED, exactly once.
type Booking struct {
	ID           string
	PNR          string
	ContactEmail string
	ScheduleIDs  []string
	Passengers   []Passenger
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SeatNumbers returns the seat assignment of every passenger, in order.
func (b *Booking) SeatNumbers() []string {
	seats := make([]string, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		seats = append(seats, p.SeatNumber)
	}
	return seats
}
