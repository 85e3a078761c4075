package tickets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/repository"
)

type TicketUseCase interface {
	Generate(ctx context.Context, bookingID string) (*domain.Ticket, error)
	GetByPnr(ctx context.Context, pnr string) (*domain.Ticket, error)
	Cancel(ctx context.Context, pnr string) (*domain.Ticket, error)
}

type TicketService struct {
	tickets  repository.TicketRepository
	bookings repository.BookingRepository
	logger   zerolog.Logger
	now      func() time.Time
}

type TicketServiceOption func(*TicketService)

// WithClock overrides the issuance clock.
func WithClock(now func() time.Time) TicketServiceOption {
	return func(s *TicketService) {
		s.now = now
	}
}

func NewTicketService(tickets repository.TicketRepository, bookings repository.BookingRepository, logger zerolog.Logger, opts ...TicketServiceOption) *TicketService {
	service := &TicketService{
		tickets:  tickets,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Generate issues the one ticket a confirmed booking gets: ACTIVE, stamped
// now, carrying the booking's passengers and first schedule.
func (s *TicketService) Generate(ctx context.Context, bookingID string) (*domain.Ticket, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:         uuid.NewString(),
		PNR:        booking.PNR,
		BookingID:  booking.ID,
		ScheduleID: booking.ScheduleIDs[0],
		Passengers: append([]domain.Passenger{}, booking.Passengers...),
		Status:     domain.TicketStatusActive,
		IssuedAt:   s.now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info().Str("pnr", ticket.PNR).Str("booking_id", bookingID).Msg("ticket issued")
	return ticket, nil
}

// GetByPnr treats a cancelled ticket the same as a missing one.
func (s *TicketService) GetByPnr(ctx context.Context, pnr string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByPnr(ctx, pnr)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusCancelled {
		return nil, domain.NotFound("ticket not found")
	}
	return ticket, nil
}

func (s *TicketService) Cancel(ctx context.Context, pnr string) (*domain.Ticket, error) {
	return s.tickets.UpdateStatus(ctx, pnr, domain.TicketStatusCancelled)
}

var _ TicketUseCase = (*TicketService)(nil)
