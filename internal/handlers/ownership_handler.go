package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

// OwnershipHandler manages the owner shares of fields.
type OwnershipHandler struct {
	service services.OwnershipService
}

// NewOwnershipHandler creates a new OwnershipHandler instance.
func NewOwnershipHandler(service services.OwnershipService) *OwnershipHandler {
	return &OwnershipHandler{service: service}
}

// Register mounts the ownership routes on group.
func (h *OwnershipHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Save)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List handles GET /api/v1/tarla-sahiplikleri, optionally for one tarla_id.
func (h *OwnershipHandler) List(c *gin.Context) {
	ownerships, err := h.service.List(c.Request.Context(), c.Query("tarla_id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(ownerships))
}

// Get handles GET /api/v1/tarla-sahiplikleri/:id.
func (h *OwnershipHandler) Get(c *gin.Context) {
	ownership, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ownership)
}

// Save handles POST /api/v1/tarla-sahiplikleri. The share list of the
// field is replaced as a whole.
func (h *OwnershipHandler) Save(c *gin.Context) {
	var body models.FieldOwnership
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	ownership, err := h.service.Save(c.Request.Context(), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, ownership)
}

// Update handles PUT /api/v1/tarla-sahiplikleri/:id.
func (h *OwnershipHandler) Update(c *gin.Context) {
	var body models.FieldOwnership
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	ownership, err := h.service.Update(c.Request.Context(), c.Param("id"), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ownership)
}

// Delete handles DELETE /api/v1/tarla-sahiplikleri/:id.
func (h *OwnershipHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
