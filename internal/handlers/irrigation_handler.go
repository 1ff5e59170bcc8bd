package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

var irrigationFilters = []QueryFilter{
	{Param: "tarla_id", Column: "field_id"},
	{Param: "kuyu_id", Column: "well_id"},
	{Param: "sezon_id", Column: "season_id"},
}

// IrrigationHandler manages irrigation records.
type IrrigationHandler struct {
	service services.IrrigationService
}

// NewIrrigationHandler creates a new IrrigationHandler instance.
func NewIrrigationHandler(service services.IrrigationService) *IrrigationHandler {
	return &IrrigationHandler{service: service}
}

// Register mounts the irrigation routes on group.
func (h *IrrigationHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List handles GET /api/v1/sulama-kayitlari.
func (h *IrrigationHandler) List(c *gin.Context) {
	where, ok := bindFilters(c, irrigationFilters)
	if !ok {
		return
	}

	records, err := h.service.List(c.Request.Context(), where)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(records))
}

// Get handles GET /api/v1/sulama-kayitlari/:id.
func (h *IrrigationHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create handles POST /api/v1/sulama-kayitlari. The season is taken from
// the well and the caller is recorded as the author.
func (h *IrrigationHandler) Create(c *gin.Context) {
	var body models.IrrigationRecord
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	record, err := h.service.Create(c.Request.Context(), middleware.GetAuth(c), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Update handles PUT /api/v1/sulama-kayitlari/:id.
func (h *IrrigationHandler) Update(c *gin.Context) {
	var body models.IrrigationRecord
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	record, err := h.service.Update(c.Request.Context(), c.Param("id"), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /api/v1/sulama-kayitlari/:id.
func (h *IrrigationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
