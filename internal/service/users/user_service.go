package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/auth"
	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
)

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	DeleteOwnAccount(ctx context.Context, token string) error
}

type RegisterInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	PhoneNumber string      `json:"phone_number"`
	Role        domain.Role `json:"role"`
}

type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleTraveler
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		PhoneNumber:  input.PhoneNumber,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) DeleteOwnAccount(ctx context.Context, token string) error {
	identity, err := s.tokens.Resolve(token)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, identity.UserID)
}

var _ UserUseCase = (*UserService)(nil)
