package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

// DebtHandler manages mutual debts between owners.
type DebtHandler struct {
	service services.DebtService
}

// NewDebtHandler creates a new DebtHandler instance.
func NewDebtHandler(service services.DebtService) *DebtHandler {
	return &DebtHandler{service: service}
}

// DebtListRequest filters the debt list.
type DebtListRequest struct {
	OwnerID string `form:"sahip_id"`
	Status  string `form:"durum"`
}

// Register mounts the debt routes on group.
func (h *DebtHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.PUT("/:id/ode", h.MarkPaid)
	group.PUT("/:id/onayla", h.Confirm)
}

// List handles GET /api/v1/ortak-borclar. sahip_id matches either side.
func (h *DebtHandler) List(c *gin.Context) {
	var req DebtListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	debts, err := h.service.List(c.Request.Context(), req.OwnerID, req.Status)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(debts))
}

// Create handles POST /api/v1/ortak-borclar for manually entered debts.
func (h *DebtHandler) Create(c *gin.Context) {
	var debt models.MutualDebt
	if err := c.ShouldBindJSON(&debt); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &debt)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /api/v1/ortak-borclar/:id.
func (h *DebtHandler) Get(c *gin.Context) {
	debt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

// Update handles PUT /api/v1/ortak-borclar/:id. Only the creditor or an admin may edit.
func (h *DebtHandler) Update(c *gin.Context) {
	var patch services.DebtUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	debt, err := h.service.Update(c.Request.Context(), middleware.GetAuth(c), c.Param("id"), patch)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

// Delete handles DELETE /api/v1/ortak-borclar/:id. Only the creditor or an admin may delete.
func (h *DebtHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetAuth(c), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkPaid handles PUT /api/v1/ortak-borclar/:id/ode.
func (h *DebtHandler) MarkPaid(c *gin.Context) {
	debt, err := h.service.MarkPaid(c.Request.Context(), middleware.GetAuth(c), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

// Confirm handles PUT /api/v1/ortak-borclar/:id/onayla.
func (h *DebtHandler) Confirm(c *gin.Context) {
	debt, err := h.service.Confirm(c.Request.Context(), middleware.GetAuth(c), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}
