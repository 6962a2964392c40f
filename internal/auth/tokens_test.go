package auth

import (
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTokenManager_IssueAndResolve(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue(&domain.User{ID: 7, Email: "kari@example.com", Role: domain.RoleCompany})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	identity, err := manager.Resolve(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, "kari@example.com", identity.Email)
	assert.Equal(t, domain.RoleCompany, identity.Role)
}

func TestTokenManager_Resolve_BearerPrefix(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue(&domain.User{ID: 7, Role: domain.RoleTraveler})
	assert.NoError(t, err)

	identity, err := manager.Resolve("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)
}

func TestTokenManager_Resolve_Garbage(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	identity, err := manager.Resolve("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, identity)
}

func TestTokenManager_Resolve_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(&domain.User{ID: 7})
	assert.NoError(t, err)

	identity, err := verifier.Resolve(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, identity)
}

func TestTokenManager_Resolve_Expired(t *testing.T) {
	manager := NewTokenManager("secret", -time.Minute)

	token, err := manager.Issue(&domain.User{ID: 7})
	assert.NoError(t, err)

	identity, err := manager.Resolve(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, identity)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPassword(hash, "secret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
