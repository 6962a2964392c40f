package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingFilter narrows List. Nil fields are not applied; Start/End are
// inclusive bounds on booking_date.
type BookingFilter struct {
	UserID           *int64
	TicketIDs        []int64
	Start            *time.Time
	End              *time.Time
	ExcludeCancelled bool
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CountsByUser(ctx context.Context) (map[int64]int, error)
	AverageBookingsPerUser(ctx context.Context) (float64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, ticket_id, booking_date, number_of_seats, is_cancelled, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.TicketID, &b.BookingDate, &b.NumberOfSeats, &b.IsCancelled, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create reserves the seats and inserts the booking inside one transaction:
// the booking row exists if and only if the seat decrement committed.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := reserveSeats(ctx, tx, booking.TicketID, booking.NumberOfSeats); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, user_id, ticket_id, booking_date, number_of_seats)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.UserID, booking.TicketID, booking.BookingDate, booking.NumberOfSeats).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Cancel flips the flag and returns the seats to the ticket in the same
// transaction. Cancelling an already cancelled booking is rejected.
func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	b, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET is_cancelled = true, updated_at = now()
		WHERE id=$1 AND NOT is_cancelled
		RETURNING `+bookingColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrBookingNotFound
		}
		return nil, domain.ErrBookingCancelled
	}
	if err != nil {
		return nil, err
	}

	if err := releaseSeats(ctx, tx, b.TicketID, b.NumberOfSeats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE true`
	args := make([]interface{}, 0, 4)

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != nil {
		query += ` AND user_id = ` + arg(*filter.UserID)
	}
	if filter.TicketIDs != nil {
		query += ` AND ticket_id = ANY(` + arg(filter.TicketIDs) + `)`
	}
	if filter.Start != nil {
		query += ` AND booking_date >= ` + arg(*filter.Start)
	}
	if filter.End != nil {
		query += ` AND booking_date <= ` + arg(*filter.End)
	}
	if filter.ExcludeCancelled {
		query += ` AND NOT is_cancelled`
	}
	query += ` ORDER BY booking_date, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

// CountsByUser returns non-cancelled booking counts grouped by user.
func (r *PGBookingRepository) CountsByUser(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, COUNT(*) FROM bookings WHERE NOT is_cancelled GROUP BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, err
		}
		counts[userID] = count
	}
	return counts, rows.Err()
}

// AverageBookingsPerUser averages the non-cancelled booking counts over users
// that have at least one; zero when no bookings exist.
func (r *PGBookingRepository) AverageBookingsPerUser(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(cnt), 0) FROM (
		SELECT COUNT(*) AS cnt FROM bookings WHERE NOT is_cancelled GROUP BY user_id
	) per_user`).Scan(&avg)
	return avg, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
