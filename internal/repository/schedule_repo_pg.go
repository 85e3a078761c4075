package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmaslov/flightbooking/internal/domain"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.ScheduleInventory) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleInventory, error)
	List(ctx context.Context) ([]domain.ScheduleInventory, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.ScheduleInventory, error)
	// UpdateSeats writes a new seat set for the schedule only if the stored
	// version still equals expectedVersion. Returns false when a concurrent
	// writer got there first.
	UpdateSeats(ctx context.Context, id string, bookedSeats []string, availableSeats int, expectedVersion int64) (bool, error)
}

const scheduleColumns = `id, flight_number, origin, destination, flight_date, departure_time, arrival_time, fare_cents, total_seats, booked_seats, available_seats, status, version, created_at, updated_at`

type PGScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &PGScheduleRepository{db: db}
}

func (r *PGScheduleRepository) Create(ctx context.Context, s *domain.ScheduleInventory) error {
	row := r.db.QueryRow(ctx, `INSERT INTO flight_schedules (id, flight_number, origin, destination, flight_date, departure_time, arrival_time, fare_cents, total_seats, booked_seats, available_seats, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0)
		RETURNING version, created_at, updated_at`,
		s.ID, s.FlightNumber, s.Origin, s.Destination, s.FlightDate, s.DepartureTime, s.ArrivalTime, s.FareCents, s.TotalSeats, s.BookedSeats, s.AvailableSeats, s.Status)
	return row.Scan(&s.Version, &s.CreatedAt, &s.UpdatedAt)
}

func (r *PGScheduleRepository) GetByID(ctx context.Context, id string) (*domain.ScheduleInventory, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM flight_schedules WHERE id=$1`, id)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("flight schedule not found")
		}
		return nil, err
	}
	return s, nil
}

func (r *PGScheduleRepository) List(ctx context.Context) ([]domain.ScheduleInventory, error) {
	rows, err := r.db.Query(ctx, `SELECT `+scheduleColumns+` FROM flight_schedules ORDER BY flight_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func (r *PGScheduleRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.ScheduleInventory, error) {
	rows, err := r.db.Query(ctx, `SELECT `+scheduleColumns+` FROM flight_schedules WHERE origin=$1 AND destination=$2 AND flight_date=$3 ORDER BY departure_time`, origin, destination, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func (r *PGScheduleRepository) UpdateSeats(ctx context.Context, id string, bookedSeats []string, availableSeats int, expectedVersion int64) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE flight_schedules SET booked_seats=$1, available_seats=$2, version=version+1, updated_at=now() WHERE id=$3 AND version=$4`,
		bookedSeats, availableSeats, id, expectedVersion)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func scanSchedule(row pgx.Row) (*domain.ScheduleInventory, error) {
	var s domain.ScheduleInventory
	if err := row.Scan(&s.ID, &s.FlightNumber, &s.Origin, &s.Destination, &s.FlightDate, &s.DepartureTime, &s.ArrivalTime, &s.FareCents, &s.TotalSeats, &s.BookedSeats, &s.AvailableSeats, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSchedules(rows pgx.Rows) ([]domain.ScheduleInventory, error) {
	schedules := make([]domain.ScheduleInventory, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

var _ ScheduleRepository = (*PGScheduleRepository)(nil)
