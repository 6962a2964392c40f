package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/auth"
	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func issueToken(t *testing.T, tokens *auth.TokenManager, role domain.Role) string {
	t.Helper()
	token, err := tokens.Issue(&domain.User{ID: 7, Email: "kari@example.com", Role: role})
	assert.NoError(t, err)
	return token
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings/my", nil)

	RequireAuth(tokens)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings/my", nil)
	c.Request.Header.Set("Authorization", "Bearer garbage")

	RequireAuth(tokens)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	token := issueToken(t, tokens, domain.RoleTraveler)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings/my", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	RequireAuth(tokens)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, "Bearer "+token, bearerToken(c))

	identity, ok := c.Get(identityKey)
	assert.True(t, ok)
	assert.Equal(t, int64(7), identity.(*auth.Identity).UserID)
}

func TestRequireAuth_RoleDenied(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	token := issueToken(t, tokens, domain.RoleTraveler)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/bookings", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	RequireAuth(tokens, domain.RoleAdmin)(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, c.IsAborted())
}

func TestRequireAuth_RoleAllowed(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	token := issueToken(t, tokens, domain.RoleCompany)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/tickets", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	RequireAuth(tokens, domain.RoleCompany, domain.RoleAdmin)(c)

	assert.False(t, c.IsAborted())
}
