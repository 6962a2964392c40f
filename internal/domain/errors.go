package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCompanyNotFound    = errors.New("travel company not found")
	ErrInsufficientSeats  = errors.New("not enough available seats")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBookingCancelled   = errors.New("booking is already cancelled")
)
