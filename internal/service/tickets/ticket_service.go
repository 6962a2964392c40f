package tickets

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
)

type TicketUseCase interface {
	Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Ticket, error)
	Search(ctx context.Context, filter repository.TicketSearchFilter) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetTickets(ctx context.Context) ([]domain.Ticket, error)
	SetTickets(ctx context.Context, tickets []domain.Ticket) error
	InvalidateTickets(ctx context.Context) error
}

type CreateTicketInput struct {
	From           string    `json:"from"`
	To             string    `json:"to"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	CompanyID      int64     `json:"company_id"`
}

type TicketService struct {
	repo  repository.TicketRepository
	cache Cache
}

func NewTicketService(repo repository.TicketRepository, cache Cache) *TicketService {
	return &TicketService{repo: repo, cache: cache}
}

func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if input.From == "" || input.To == "" {
		return nil, fmt.Errorf("%w: route endpoints are required", domain.ErrValidation)
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, fmt.Errorf("%w: arrival time must be after departure time", domain.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if input.AvailableSeats < 0 {
		return nil, fmt.Errorf("%w: available seats must not be negative", domain.ErrValidation)
	}

	ticket := &domain.Ticket{
		From:           input.From,
		To:             input.To,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		Price:          input.Price,
		AvailableSeats: input.AvailableSeats,
		CompanyID:      input.CompanyID,
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateTickets(ctx)
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTickets(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTickets(ctx, tickets)
	}
	return tickets, nil
}

func (s *TicketService) ListByCompany(ctx context.Context, companyID int64) ([]domain.Ticket, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *TicketService) Search(ctx context.Context, filter repository.TicketSearchFilter) ([]domain.Ticket, error) {
	return s.repo.Search(ctx, filter)
}

func (s *TicketService) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateTickets(ctx)
	}
	return nil
}

var _ TicketUseCase = (*TicketService)(nil)
