package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *domain.TravelCompany) error
	List(ctx context.Context) ([]domain.TravelCompany, error)
	GetByID(ctx context.Context, id int64) (*domain.TravelCompany, error)
	Delete(ctx context.Context, id int64) error
}

type PGCompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) CompanyRepository {
	return &PGCompanyRepository{db: db}
}

const companyColumns = `id, name, description, logo, contact_email, contact_phone, is_active, created_at`

func scanCompany(row pgx.Row) (*domain.TravelCompany, error) {
	var c domain.TravelCompany
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Logo, &c.ContactEmail, &c.ContactPhone, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCompanyRepository) Create(ctx context.Context, company *domain.TravelCompany) error {
	return r.db.QueryRow(ctx, `INSERT INTO travel_companies (name, description, logo, contact_email, contact_phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		company.Name, company.Description, company.Logo, company.ContactEmail, company.ContactPhone, company.IsActive).
		Scan(&company.ID, &company.CreatedAt)
}

func (r *PGCompanyRepository) List(ctx context.Context) ([]domain.TravelCompany, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM travel_companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]domain.TravelCompany, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func (r *PGCompanyRepository) GetByID(ctx context.Context, id int64) (*domain.TravelCompany, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM travel_companies WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCompanyNotFound
	}
	return c, err
}

func (r *PGCompanyRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM travel_companies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

var _ CompanyRepository = (*PGCompanyRepository)(nil)
