package domain

import "time"

type Ticket struct {
	ID             int64     `json:"id"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	CompanyID      int64     `json:"company_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Route is the label aggregation groups bookings under.
func (t Ticket) Route() string {
	return t.From + " to " + t.To
}

func (t Ticket) SoldOut() bool {
	return t.AvailableSeats == 0
}
