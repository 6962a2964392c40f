package domain

import "time"

type Booking struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	UserID        int64     `json:"user_id"`
	TicketID      int64     `json:"ticket_id"`
	BookingDate   time.Time `json:"booking_date"`
	NumberOfSeats int       `json:"number_of_seats"`
	IsCancelled   bool      `json:"is_cancelled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
