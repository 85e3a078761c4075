package domain

import "time"

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "ACTIVE"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// Ticket is issued once per booking. A cancelled ticket is never returned
// by lookup-by-PNR.
type Ticket struct {
	ID         string
	PNR        string
	BookingID  string
	ScheduleID string
	Passengers []Passenger
	Status     TicketStatus
	IssuedAt   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
