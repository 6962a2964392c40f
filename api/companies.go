package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/travelbook/internal/service/companies"
	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	service companies.CompanyUseCase
}

func NewCompanyHandler(service companies.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{service: service}
}

func (h *CompanyHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", admin, h.create)
	router.DELETE("/:id", admin, h.remove)
}

func (h *CompanyHandler) create(c *gin.Context) {
	var input companies.CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CompanyHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	company, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
