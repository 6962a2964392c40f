package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbook/internal/service/analytics"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service analytics.UseCase
}

func NewAnalyticsHandler(service analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.bookingStats)
	router.GET("/tickets", h.ticketStats)
	router.GET("/users", h.userStats)
	router.GET("/export/bookings", h.exportBookings)
	router.GET("/export/tickets", h.exportTickets)
	router.GET("/export/users", h.exportUsers)
}

func (h *AnalyticsHandler) bookingStats(c *gin.Context) {
	filter, ok := statsFilterFromQuery(c)
	if !ok {
		return
	}

	stats, err := h.service.BookingStats(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) ticketStats(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	stats, err := h.service.TicketStats(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) userStats(c *gin.Context) {
	stats, err := h.service.UserStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) exportBookings(c *gin.Context) {
	filter, ok := statsFilterFromQuery(c)
	if !ok {
		return
	}

	path, err := h.service.ExportBookings(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": path})
}

func (h *AnalyticsHandler) exportTickets(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	path, err := h.service.ExportTickets(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": path})
}

func (h *AnalyticsHandler) exportUsers(c *gin.Context) {
	path, err := h.service.ExportUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": path})
}

// statsFilterFromQuery reads start/end (YYYY-MM-DD, inclusive; end covers its
// whole day) and company_id. On a malformed value the 400 is already written.
func statsFilterFromQuery(c *gin.Context) (analytics.StatsFilter, bool) {
	var filter analytics.StatsFilter

	if v := c.Query("start"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return filter, false
		}
		filter.Start = &day
	}
	if v := c.Query("end"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return filter, false
		}
		endOfDay := day.Add(24*time.Hour - time.Nanosecond)
		filter.End = &endOfDay
	}

	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return filter, false
	}
	filter.CompanyID = companyID

	return filter, true
}

func companyIDFromQuery(c *gin.Context) (*int64, bool) {
	v := c.Query("company_id")
	if v == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
		return nil, false
	}
	return &id, true
}
