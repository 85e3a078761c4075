package email

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/vmaslov/flightbooking/internal/kafka"
)

// Sender is a stub delivery channel; wiring a real SMTP provider happens
// behind this type.
type Sender struct {
	logger zerolog.Logger
}

func NewSender(logger zerolog.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info().
		Str("to", event.Email).
		Str("event", event.Type).
		Str("pnr", event.PNR).
		Str("schedule_id", event.ScheduleID).
		Strs("seats", event.Seats).
		Msg("sending booking notification email")
	return nil
}
