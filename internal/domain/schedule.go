package domain

import (
	"time"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "SCHEDULED"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

// ScheduleInventory is the seat pool of one flight schedule instance.
// AvailableSeats is always TotalSeats - len(BookedSeats); Version guards
// every seat mutation with a compare-and-update.
type ScheduleInventory struct {
	ID             string
	FlightNumber   string
	Origin         string
	Destination    string
	FlightDate     time.Time
	DepartureTime  time.Time
	ArrivalTime    time.Time
	FareCents      int64
	TotalSeats     int
	BookedSeats    []string
	AvailableSeats int
	Status         ScheduleStatus
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *ScheduleInventory) SeatBooked(seat string) bool {
	for _, b := range s.BookedSeats {
		if b == seat {
			return true
		}
	}
	return false
}
