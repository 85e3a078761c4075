package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmaslov/flightbooking/internal/client"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/kafka"
	"github.com/vmaslov/flightbooking/internal/repository"
	"github.com/vmaslov/flightbooking/internal/service/tickets"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Ticket, error)
	GetBookingByPnr(ctx context.Context, pnr string) (*domain.Booking, error)
	GetBookingsByContact(ctx context.Context, email string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, pnr string) (string, error)
}

// PNRCache claims generated booking references across replicas. The unique
// index on bookings.pnr remains the authority; the cache only cuts down on
// wasted insert attempts.
type PNRCache interface {
	ReservePNR(ctx context.Context, pnr string) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	ContactEmail string             `json:"contact_email"`
	ScheduleIDs  []string           `json:"schedule_ids"`
	Passengers   []domain.Passenger `json:"passengers"`
}

// PNRGenerator produces one candidate booking reference per call. Injected
// so tests and deployments can swap the source of randomness.
type PNRGenerator func() string

type BookingService struct {
	bookings           repository.BookingRepository
	inventory          client.InventoryClient
	tickets            tickets.TicketUseCase
	cache              PNRCache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	pnrAttempts        int
	generatePNR        PNRGenerator
	logger             zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPNRGenerator(gen PNRGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.generatePNR = gen
	}
}

func WithPNRAttempts(attempts int) BookingServiceOption {
	return func(s *BookingService) {
		s.pnrAttempts = attempts
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	inventory client.InventoryClient,
	ticketSvc tickets.TicketUseCase,
	cache PNRCache,
	producer Producer,
	bookingTopic string,
	logger zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		inventory:    inventory,
		tickets:      ticketSvc,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		pnrAttempts:  5,
		generatePNR:  DefaultPNRGenerator,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// DefaultPNRGenerator derives a short uppercase booking reference from a
// random UUID. Collisions are possible and handled by retrying.
func DefaultPNRGenerator() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

// CreateBooking drives the create saga: reserve seats remotely, persist the
// booking, issue the ticket. A persistence failure after a successful
// reservation releases the seats again before the error surfaces.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Ticket, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	scheduleID := input.ScheduleIDs[0]
	seats := make([]string, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		seats = append(seats, p.SeatNumber)
	}

	if err := s.inventory.ReserveSeats(ctx, scheduleID, seats); err != nil {
		return nil, err
	}

	booking, err := s.persistWithFreshPNR(ctx, input)
	if err != nil {
		s.compensateReservation(ctx, scheduleID, seats)
		return nil, err
	}

	ticket, err := s.tickets.Generate(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking, "")
	return ticket, nil
}

// persistWithFreshPNR generates a booking reference and inserts the
// booking, regenerating on a collision instead of assuming uniqueness.
func (s *BookingService) persistWithFreshPNR(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < s.pnrAttempts; attempt++ {
		pnr := s.generatePNR()

		if s.cache != nil {
			ok, err := s.cache.ReservePNR(ctx, pnr)
			if err == nil && !ok {
				lastErr = domain.Conflict("booking reference already exists")
				continue
			}
		}

		booking := &domain.Booking{
			ID:           uuid.NewString(),
			PNR:          pnr,
			ContactEmail: input.ContactEmail,
			ScheduleIDs:  input.ScheduleIDs,
			Passengers:   input.Passengers,
			Status:       domain.BookingStatusConfirmed,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			if domain.IsKind(err, domain.KindConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return booking, nil
	}
	return nil, lastErr
}

// compensateReservation releases seats that were reserved for a booking
// that never got persisted. Runs detached from the request's cancellation
// so an aborted request still frees its seats.
func (s *BookingService) compensateReservation(ctx context.Context, scheduleID string, seats []string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.inventory.ReleaseSeats(releaseCtx, scheduleID, seats); err != nil {
		s.logger.Error().Str("schedule_id", scheduleID).Strs("seats", seats).Err(err).
			Msg("compensation failed, seats may be leaked")
	}
}

func (s *BookingService) GetBookingByPnr(ctx context.Context, pnr string) (*domain.Booking, error) {
	return s.bookings.GetByPnr(ctx, pnr)
}

func (s *BookingService) GetBookingsByContact(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.ListByContactEmail(ctx, email)
}

// CancelBooking drives the cancel saga. Freeing the seats is the primary
// effect and must succeed first; ticket cancellation is best-effort.
func (s *BookingService) CancelBooking(ctx context.Context, pnr string) (string, error) {
	booking, err := s.bookings.GetByPnr(ctx, pnr)
	if err != nil {
		return "", err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return "", domain.Conflict("booking already cancelled")
	}

	if err := s.inventory.ReleaseSeats(ctx, booking.ScheduleIDs[0], booking.SeatNumbers()); err != nil {
		return "", err
	}

	if _, err := s.tickets.Cancel(ctx, pnr); err != nil && !domain.IsKind(err, domain.KindNotFound) {
		s.logger.Warn().Str("pnr", pnr).Err(err).Msg("ticket cancellation failed, booking cancellation proceeds")
		s.publish(ctx, kafka.EventTicketCancelError, booking, err.Error())
	}

	updated, err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled)
	if err != nil {
		return "", err
	}

	s.publish(ctx, kafka.EventBookingCancelled, updated, "")
	return "booking and ticket cancelled", nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, detail string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		PNR:        booking.PNR,
		BookingID:  booking.ID,
		ScheduleID: booking.ScheduleIDs[0],
		Seats:      booking.SeatNumbers(),
		Email:      booking.ContactEmail,
		Status:     string(booking.Status),
		Detail:     detail,
		At:         time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		s.logger.Warn().Str("pnr", booking.PNR).Str("event", eventType).Err(err).Msg("failed to publish booking event")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event); err != nil {
			s.logger.Warn().Str("pnr", booking.PNR).Str("event", eventType).Err(err).Msg("failed to publish notification event")
		}
	}
}

func validateCreate(input CreateBookingInput) error {
	if len(input.ScheduleIDs) == 0 {
		return domain.BadRequest("at least one schedule id is required")
	}
	for _, id := range input.ScheduleIDs {
		if id == "" {
			return domain.BadRequest("schedule id cannot be empty")
		}
	}
	if input.ContactEmail == "" || !strings.Contains(input.ContactEmail, "@") {
		return domain.BadRequest("a valid contact email is required")
	}
	if len(input.Passengers) == 0 {
		return domain.BadRequest("at least one passenger is required")
	}
	seen := make(map[string]struct{}, len(input.Passengers))
	for _, p := range input.Passengers {
		if p.FullName == "" {
			return domain.BadRequest("passenger name is required")
		}
		if p.SeatNumber == "" {
			return domain.BadRequest("every passenger needs a seat assignment")
		}
		if _, dup := seen[p.SeatNumber]; dup {
			return domain.BadRequest("duplicate seat assignment: " + p.SeatNumber)
		}
		seen[p.SeatNumber] = struct{}{}
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
