package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/service/tickets"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTicketUseCase is a mock implementation of tickets.TicketUseCase
type MockTicketUseCase struct {
	mock.Mock
}

func (m *MockTicketUseCase) Create(ctx context.Context, input tickets.CreateTicketInput) (*domain.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) ListByCompany(ctx context.Context, companyID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) Search(ctx context.Context, filter repository.TicketSearchFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTicketHandler_create(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	departure := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	input := tickets.CreateTicketInput{
		From:           "Oslo",
		To:             "Bergen",
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(7 * time.Hour),
		Price:          120,
		AvailableSeats: 40,
		CompanyID:      1,
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Ticket{ID: 1, From: "Oslo", To: "Bergen", Price: 120, AvailableSeats: 40, CompanyID: 1}
	mockService.On("Create", c.Request.Context(), mock.AnythingOfType("tickets.CreateTicketInput")).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Ticket
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Oslo", response.From)

	mockService.AssertExpectations(t)
}

func TestTicketHandler_create_validationError(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(tickets.CreateTicketInput{From: "Oslo"})
	c.Request = httptest.NewRequest("POST", "/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).
		Return(nil, fmt.Errorf("%w: route endpoints are required", domain.ErrValidation))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestTicketHandler_create_storeError(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(tickets.CreateTicketInput{From: "Oslo", To: "Bergen"})
	c.Request = httptest.NewRequest("POST", "/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).Return(nil, errors.New("db down"))

	handler.create(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockService.AssertExpectations(t)
}

func TestTicketHandler_listByCompany(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "companyId", Value: "2"}}
	c.Request = httptest.NewRequest("GET", "/tickets/company/2", nil)

	mockService.On("ListByCompany", c.Request.Context(), int64(2)).Return([]domain.Ticket{{ID: 1, CompanyID: 2}}, nil)

	handler.listByCompany(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Ticket
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)

	mockService.AssertExpectations(t)
}

func TestTicketHandler_listByCompany_invalidID(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "companyId", Value: "acme"}}
	c.Request = httptest.NewRequest("GET", "/tickets/company/acme", nil)

	handler.listByCompany(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListByCompany")
}

func TestTicketHandler_list(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/tickets", nil)

	mockService.On("List", c.Request.Context()).Return([]domain.Ticket{{ID: 1}, {ID: 2}}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Ticket
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)

	mockService.AssertExpectations(t)
}

func TestTicketHandler_search(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/tickets/search?from=Oslo&to=Bergen&min_price=50&max_price=200&company_id=1", nil)

	mockService.On("Search", c.Request.Context(), mock.MatchedBy(func(f repository.TicketSearchFilter) bool {
		return f.From == "Oslo" && f.To == "Bergen" &&
			f.MinPrice != nil && *f.MinPrice == 50 &&
			f.MaxPrice != nil && *f.MaxPrice == 200 &&
			f.CompanyID != nil && *f.CompanyID == 1
	})).Return([]domain.Ticket{{ID: 1}}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestTicketHandler_search_invalidPrice(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/tickets/search?min_price=cheap", nil)

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestTicketHandler_search_invalidDate(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/tickets/search?departure_date=tomorrow", nil)

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestTicketHandler_get_notFound(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "404"}}
	c.Request = httptest.NewRequest("GET", "/tickets/404", nil)

	mockService.On("GetByID", c.Request.Context(), int64(404)).Return(nil, domain.ErrTicketNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestTicketHandler_remove(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("DELETE", "/tickets/1", nil)

	mockService.On("Delete", c.Request.Context(), int64(1)).Return(nil)

	handler.remove(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
