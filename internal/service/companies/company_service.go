package companies

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
)

type CompanyUseCase interface {
	Create(ctx context.Context, input CreateCompanyInput) (*domain.TravelCompany, error)
	List(ctx context.Context) ([]domain.TravelCompany, error)
	GetByID(ctx context.Context, id int64) (*domain.TravelCompany, error)
	Delete(ctx context.Context, id int64) error
}

type CreateCompanyInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

type CompanyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) *CompanyService {
	return &CompanyService{repo: repo}
}

func (s *CompanyService) Create(ctx context.Context, input CreateCompanyInput) (*domain.TravelCompany, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}

	company := &domain.TravelCompany{
		Name:         input.Name,
		Description:  input.Description,
		Logo:         input.Logo,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) List(ctx context.Context) ([]domain.TravelCompany, error) {
	return s.repo.List(ctx)
}

func (s *CompanyService) GetByID(ctx context.Context, id int64) (*domain.TravelCompany, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ CompanyUseCase = (*CompanyService)(nil)
