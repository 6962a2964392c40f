package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/service/analytics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAnalyticsUseCase is a mock implementation of analytics.UseCase
type MockAnalyticsUseCase struct {
	mock.Mock
}

func (m *MockAnalyticsUseCase) BookingStats(ctx context.Context, filter analytics.StatsFilter) (*analytics.BookingStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.BookingStats), args.Error(1)
}

func (m *MockAnalyticsUseCase) TicketStats(ctx context.Context, companyID *int64) (*analytics.TicketStats, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.TicketStats), args.Error(1)
}

func (m *MockAnalyticsUseCase) UserStats(ctx context.Context) (*analytics.UserStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.UserStats), args.Error(1)
}

func (m *MockAnalyticsUseCase) ExportBookings(ctx context.Context, filter analytics.StatsFilter) (string, error) {
	args := m.Called(ctx, filter)
	return args.String(0), args.Error(1)
}

func (m *MockAnalyticsUseCase) ExportTickets(ctx context.Context, companyID *int64) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

func (m *MockAnalyticsUseCase) ExportUsers(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestAnalyticsHandler_bookingStats(t *testing.T) {
	mockService := &MockAnalyticsUseCase{}
	handler := NewAnalyticsHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/bookings?start=2026-08-01&end=2026-08-31", nil)

	stats := &analytics.BookingStats{TotalBookings: 3, TotalRevenue: 250}
	mockService.On("BookingStats", c.Request.Context(), mock.MatchedBy(func(f analytics.StatsFilter) bool {
		if f.Start == nil || f.End == nil {
			return false
		}
		// the end date covers its whole day
		return f.Start.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) &&
			f.End.After(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC))
	})).Return(stats, nil)

	handler.bookingStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response analytics.BookingStats
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 3, response.TotalBookings)
	assert.Equal(t, 250.0, response.TotalRevenue)

	mockService.AssertExpectations(t)
}

func TestAnalyticsHandler_bookingStats_invalidDate(t *testing.T) {
	mockService := &MockAnalyticsUseCase{}
	handler := NewAnalyticsHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/bookings?start=yesterday", nil)

	handler.bookingStats(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "BookingStats")
}

func TestAnalyticsHandler_ticketStats_companyFilter(t *testing.T) {
	mockService := &MockAnalyticsUseCase{}
	handler := NewAnalyticsHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/tickets?company_id=2", nil)

	stats := &analytics.TicketStats{TotalTickets: 5}
	mockService.On("TicketStats", c.Request.Context(), mock.MatchedBy(func(id *int64) bool {
		return id != nil && *id == 2
	})).Return(stats, nil)

	handler.ticketStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestAnalyticsHandler_ticketStats_invalidCompany(t *testing.T) {
	mockService := &MockAnalyticsUseCase{}
	handler := NewAnalyticsHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/tickets?company_id=acme", nil)

	handler.ticketStats(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "TicketStats")
}

func TestAnalyticsHandler_userStats(t *testing.T) {
	mockService := &MockAnalyticsUseCase{}
	handler := NewAnalyticsHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/users", nil)

	stats := &analytics.UserStats{TotalUsers: 13, AverageBookingsPerUser: 2.67}
	mockService.On("UserStats", c.Request.Context()).Return(stats, nil)

	handler.userStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response analytics.UserStats
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 13, response.TotalUsers)
	assert.Equal(t, 2.67, response.AverageBookingsPerUser)

	mockService.AssertExpectations(t)
}

func TestAnalyticsHandler_exportBookings(t *testing.T) {
	mockService := &MockAnalyticsUseCase{}
	handler := NewAnalyticsHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/analytics/export/bookings", nil)

	mockService.On("ExportBookings", c.Request.Context(), analytics.StatsFilter{}).Return("exports/bookings_export_20260801_090000.csv", nil)

	handler.exportBookings(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "exports/bookings_export_20260801_090000.csv", response["file"])

	mockService.AssertExpectations(t)
}
