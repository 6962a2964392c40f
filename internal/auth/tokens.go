package auth

import (
	"strings"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a verified token resolves to.
type Identity struct {
	UserID int64
	Email  string
	Role   domain.Role
}

type Claims struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Resolve verifies a bearer token and returns the identity it carries. The
// "Bearer " prefix is accepted and stripped.
func (m *TokenManager) Resolve(token string) (*Identity, error) {
	token = strings.TrimPrefix(token, "Bearer ")

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
