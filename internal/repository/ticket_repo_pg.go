package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketSearchFilter carries the optional search criteria. Nil fields are not
// applied. Date filters match the whole calendar day of the given instant.
type TicketSearchFilter struct {
	From          string
	To            string
	MinPrice      *float64
	MaxPrice      *float64
	DepartureDate *time.Time
	ArrivalDate   *time.Time
	CompanyID     *int64
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Ticket, error)
	IDsByCompany(ctx context.Context, companyID int64) ([]int64, error)
	Search(ctx context.Context, filter TicketSearchFilter) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ReserveSeats(ctx context.Context, id int64, seats int) (*domain.Ticket, error)
	ReleaseSeats(ctx context.Context, id int64, seats int) error
	Delete(ctx context.Context, id int64) error
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, from_location, to_location, departure_time, arrival_time, price, available_seats, company_id, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.From, &t.To, &t.DepartureTime, &t.ArrivalTime, &t.Price, &t.AvailableSeats, &t.CompanyID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.QueryRow(ctx, `INSERT INTO tickets (from_location, to_location, departure_time, arrival_time, price, available_seats, company_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		ticket.From, ticket.To, ticket.DepartureTime, ticket.ArrivalTime, ticket.Price, ticket.AvailableSeats, ticket.CompanyID).
		Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *PGTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY departure_time, id`)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *PGTicketRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE company_id=$1 ORDER BY departure_time, id`, companyID)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *PGTicketRepository) IDsByCompany(ctx context.Context, companyID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM tickets WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGTicketRepository) Search(ctx context.Context, filter TicketSearchFilter) ([]domain.Ticket, error) {
	conds := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.From != "" {
		conds = append(conds, `from_location ILIKE '%' || `+arg(filter.From)+` || '%'`)
	}
	if filter.To != "" {
		conds = append(conds, `to_location ILIKE '%' || `+arg(filter.To)+` || '%'`)
	}
	if filter.MinPrice != nil {
		conds = append(conds, `price >= `+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, `price <= `+arg(*filter.MaxPrice))
	}
	if filter.DepartureDate != nil {
		day := filter.DepartureDate.Truncate(24 * time.Hour)
		conds = append(conds, `departure_time >= `+arg(day))
		conds = append(conds, `departure_time < `+arg(day.Add(24*time.Hour)))
	}
	if filter.ArrivalDate != nil {
		day := filter.ArrivalDate.Truncate(24 * time.Hour)
		conds = append(conds, `arrival_time >= `+arg(day))
		conds = append(conds, `arrival_time < `+arg(day.Add(24*time.Hour)))
	}
	if filter.CompanyID != nil {
		conds = append(conds, `company_id = `+arg(*filter.CompanyID))
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY departure_time, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTicketNotFound
	}
	return t, err
}

// seatExecutor is satisfied by both the pool and a transaction, so the seat
// guard below is the only place available_seats is mutated.
type seatExecutor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// reserveSeats decrements the seat count only when enough seats remain. The
// guard in the UPDATE makes the check-and-decrement a single atomic statement,
// so concurrent reservations cannot both pass against a stale count.
func reserveSeats(ctx context.Context, db seatExecutor, id int64, seats int) (*domain.Ticket, error) {
	t, err := scanTicket(db.QueryRow(ctx, `UPDATE tickets SET available_seats = available_seats - $2, updated_at = now()
		WHERE id=$1 AND available_seats >= $2
		RETURNING `+ticketColumns, id, seats))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrTicketNotFound
		}
		return nil, domain.ErrInsufficientSeats
	}
	return t, err
}

func releaseSeats(ctx context.Context, db seatExecutor, id int64, seats int) error {
	res, err := db.Exec(ctx, `UPDATE tickets SET available_seats = available_seats + $2, updated_at = now() WHERE id=$1`, id, seats)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *PGTicketRepository) ReserveSeats(ctx context.Context, id int64, seats int) (*domain.Ticket, error) {
	return reserveSeats(ctx, r.db, id, seats)
}

func (r *PGTicketRepository) ReleaseSeats(ctx context.Context, id int64, seats int) error {
	return releaseSeats(ctx, r.db, id, seats)
}

func (r *PGTicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
