package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbook/internal/auth"
	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, token string, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*domain.Booking, error)
	FindAll(ctx context.Context) ([]domain.Booking, error)
	FindByUser(ctx context.Context, token string) ([]domain.Booking, error)
	FindByCompany(ctx context.Context, companyID int64) ([]domain.Booking, error)
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type IdentityResolver interface {
	Resolve(token string) (*auth.Identity, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	TicketID      int64 `json:"ticket_id"`
	NumberOfSeats int   `json:"number_of_seats"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	tickets            repository.TicketRepository
	identity           IdentityResolver
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	tickets repository.TicketRepository,
	identity IdentityResolver,
	producer Producer,
	bookingTopic string,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		tickets:      tickets,
		identity:     identity,
		producer:     producer,
		bookingTopic: bookingTopic,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves seats and persists the booking. The repository runs
// the seat decrement and the insert in one transaction, so a rejected
// reservation leaves no booking behind.
func (s *BookingService) CreateBooking(ctx context.Context, token string, input CreateBookingInput) (*domain.Booking, error) {
	if input.NumberOfSeats < 1 {
		return nil, fmt.Errorf("%w: number of seats must be positive", domain.ErrValidation)
	}

	identity, err := s.identity.Resolve(token)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:     uuid.NewString(),
		UserID:        identity.UserID,
		TicketID:      input.TicketID,
		BookingDate:   time.Now(),
		NumberOfSeats: input.NumberOfSeats,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking, identity.Email)
	return booking, nil
}

// CancelBooking flips the cancellation flag and returns the seats to the
// ticket; both happen in the repository transaction.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	cancelled, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_cancelled", cancelled, "")
	return cancelled, nil
}

func (s *BookingService) FindAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx, repository.BookingFilter{})
}

func (s *BookingService) FindByUser(ctx context.Context, token string) ([]domain.Booking, error) {
	identity, err := s.identity.Resolve(token)
	if err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repository.BookingFilter{UserID: &identity.UserID})
}

// FindByCompany resolves the company's ticket ids first and then filters
// bookings by membership; bookings whose ticket is gone are excluded by
// construction.
func (s *BookingService) FindByCompany(ctx context.Context, companyID int64) ([]domain.Booking, error) {
	ticketIDs, err := s.tickets.IDsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(ticketIDs) == 0 {
		return []domain.Booking{}, nil
	}
	return s.bookings.List(ctx, repository.BookingFilter{TicketIDs: ticketIDs})
}

func (s *BookingService) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, email string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	event := kafka.BookingEvent{
		Type:          eventType,
		Reference:     booking.Reference,
		BookingID:     booking.ID,
		TicketID:      booking.TicketID,
		UserEmail:     email,
		NumberOfSeats: booking.NumberOfSeats,
		BookingDate:   booking.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.log.Warn("publish booking event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.log.Warn("publish notification event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
