package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/repository"
)

type InventoryUseCase interface {
	CreateSchedule(ctx context.Context, input CreateScheduleInput) (*domain.ScheduleInventory, error)
	Lookup(ctx context.Context, scheduleID string) (*domain.ScheduleInventory, error)
	List(ctx context.Context) ([]domain.ScheduleInventory, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.ScheduleInventory, error)
	Reserve(ctx context.Context, scheduleID string, seats []string) (*domain.ScheduleInventory, error)
	Release(ctx context.Context, scheduleID string, seats []string) (*domain.ScheduleInventory, error)
}

type Cache interface {
	GetSchedule(ctx context.Context, scheduleID string) (*domain.ScheduleInventory, error)
	SetSchedule(ctx context.Context, schedule *domain.ScheduleInventory) error
	InvalidateSchedule(ctx context.Context, scheduleID string) error
}

// Attempts against the version check before giving up. Each retry rereads
// the schedule, so losing the race to a disjoint reservation still succeeds.
const maxCASAttempts = 5

type InventoryService struct {
	schedules repository.ScheduleRepository
	cache     Cache
	logger    zerolog.Logger
}

type CreateScheduleInput struct {
	FlightNumber  string    `json:"flight_number"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	FlightDate    time.Time `json:"flight_date"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	FareCents     int64     `json:"fare_cents"`
	TotalSeats    int       `json:"total_seats"`
}

func NewInventoryService(schedules repository.ScheduleRepository, cache Cache, logger zerolog.Logger) *InventoryService {
	return &InventoryService{schedules: schedules, cache: cache, logger: logger}
}

func (s *InventoryService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*domain.ScheduleInventory, error) {
	if input.FlightNumber == "" {
		return nil, domain.BadRequest("flight number is required")
	}
	if input.TotalSeats <= 0 {
		return nil, domain.BadRequest("total seats must be positive")
	}

	schedule := &domain.ScheduleInventory{
		ID:             uuid.NewString(),
		FlightNumber:   input.FlightNumber,
		Origin:         input.Origin,
		Destination:    input.Destination,
		FlightDate:     input.FlightDate,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		FareCents:      input.FareCents,
		TotalSeats:     input.TotalSeats,
		BookedSeats:    []string{},
		AvailableSeats: input.TotalSeats,
		Status:         domain.ScheduleStatusScheduled,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *InventoryService) Lookup(ctx context.Context, scheduleID string) (*domain.ScheduleInventory, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSchedule(ctx, scheduleID); err == nil && cached != nil {
			return cached, nil
		}
	}

	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSchedule(ctx, schedule)
	}
	return schedule, nil
}

func (s *InventoryService) List(ctx context.Context) ([]domain.ScheduleInventory, error) {
	return s.schedules.List(ctx)
}

func (s *InventoryService) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.ScheduleInventory, error) {
	if origin == "" || destination == "" {
		return nil, domain.BadRequest("origin and destination are required")
	}
	return s.schedules.Search(ctx, origin, destination, date)
}

// Reserve adds seats to the schedule's booked set, atomically with respect
// to every other reserve/release on the same schedule. Exactly one of two
// overlapping reservations wins; disjoint reservations both succeed.
func (s *InventoryService) Reserve(ctx context.Context, scheduleID string, seats []string) (*domain.ScheduleInventory, error) {
	seats, err := normalizeSeats(seats)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		schedule, err := s.schedules.GetByID(ctx, scheduleID)
		if err != nil {
			return nil, err
		}

		for _, seat := range seats {
			if schedule.SeatBooked(seat) {
				return nil, domain.SeatConflict(fmt.Sprintf("seat %s is already booked", seat))
			}
		}
		if schedule.AvailableSeats < len(seats) {
			return nil, domain.InsufficientInventory("not enough seats available")
		}

		booked := append(append([]string{}, schedule.BookedSeats...), seats...)
		available := schedule.TotalSeats - len(booked)

		ok, err := s.schedules.UpdateSeats(ctx, scheduleID, booked, available, schedule.Version)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Debug().Str("schedule_id", scheduleID).Int("attempt", attempt+1).Msg("reserve lost version race, retrying")
			continue
		}

		schedule.BookedSeats = booked
		schedule.AvailableSeats = available
		schedule.Version++
		if s.cache != nil {
			_ = s.cache.InvalidateSchedule(ctx, scheduleID)
		}
		return schedule, nil
	}

	return nil, domain.Conflict("schedule is under heavy contention, retry the reservation")
}

// Release removes whichever of the given seats are currently booked.
// Idempotent: seats not booked are skipped, and available seats never
// exceed the schedule's total.
func (s *InventoryService) Release(ctx context.Context, scheduleID string, seats []string) (*domain.ScheduleInventory, error) {
	seats, err := normalizeSeats(seats)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		schedule, err := s.schedules.GetByID(ctx, scheduleID)
		if err != nil {
			return nil, err
		}

		booked := removeSeats(schedule.BookedSeats, seats)
		if len(booked) == len(schedule.BookedSeats) {
			return schedule, nil
		}
		available := schedule.TotalSeats - len(booked)

		ok, err := s.schedules.UpdateSeats(ctx, scheduleID, booked, available, schedule.Version)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Debug().Str("schedule_id", scheduleID).Int("attempt", attempt+1).Msg("release lost version race, retrying")
			continue
		}

		schedule.BookedSeats = booked
		schedule.AvailableSeats = available
		schedule.Version++
		if s.cache != nil {
			_ = s.cache.InvalidateSchedule(ctx, scheduleID)
		}
		return schedule, nil
	}

	return nil, domain.Conflict("schedule is under heavy contention, retry the release")
}

// normalizeSeats rejects an empty request and collapses duplicates so a
// seat listed twice is only counted once.
func normalizeSeats(seats []string) ([]string, error) {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, seat := range seats {
		if seat == "" {
			return nil, domain.BadRequest("seat identifier cannot be empty")
		}
		if _, ok := seen[seat]; ok {
			continue
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	if len(out) == 0 {
		return nil, domain.BadRequest("at least one seat is required")
	}
	return out, nil
}

func removeSeats(booked, toRemove []string) []string {
	drop := make(map[string]struct{}, len(toRemove))
	for _, seat := range toRemove {
		drop[seat] = struct{}{}
	}
	kept := make([]string, 0, len(booked))
	for _, seat := range booked {
		if _, ok := drop[seat]; ok {
			continue
		}
		kept = append(kept, seat)
	}
	return kept
}

var _ InventoryUseCase = (*InventoryService)(nil)
