package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmaslov/flightbooking/internal/domain"
)

type TicketRepository interface {
	// Create inserts the ticket; a second ticket for the same booking yields
	// a Conflict error (unique index on booking_id).
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByPnr(ctx context.Context, pnr string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, pnr string, status domain.TicketStatus) (*domain.Ticket, error)
}

const ticketColumns = `id, pnr, booking_id, schedule_id, passengers, status, issued_at, created_at, updated_at`

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	passengers, err := json.Marshal(t.Passengers)
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, `INSERT INTO tickets (id, pnr, booking_id, schedule_id, passengers, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		t.ID, t.PNR, t.BookingID, t.ScheduleID, passengers, t.Status, t.IssuedAt)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Conflict("ticket already issued for booking")
		}
		return err
	}
	return nil
}

func (r *PGTicketRepository) GetByPnr(ctx context.Context, pnr string) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE pnr=$1`, pnr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("ticket not found")
		}
		return nil, err
	}
	return t, nil
}

func (r *PGTicketRepository) UpdateStatus(ctx context.Context, pnr string, status domain.TicketStatus) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `UPDATE tickets SET status=$1, updated_at=now() WHERE pnr=$2 RETURNING `+ticketColumns, status, pnr)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("ticket not found")
		}
		return nil, err
	}
	return t, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var passengers []byte
	if err := row.Scan(&t.ID, &t.PNR, &t.BookingID, &t.ScheduleID, &passengers, &t.Status, &t.IssuedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(passengers, &t.Passengers); err != nil {
		return nil, err
	}
	return &t, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
