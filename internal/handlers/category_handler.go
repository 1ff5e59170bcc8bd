package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

// CategoryHandler serves the inventory category hierarchy.
type CategoryHandler struct {
	service services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(service services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Register mounts the category routes on group.
func (h *CategoryHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List handles GET /api/v1/kategoriler. It returns the category forest,
// or the flat list when duz=true.
func (h *CategoryHandler) List(c *gin.Context) {
	flat := false
	if raw := c.Query("duz"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.ValidationError(c, map[string]string{"duz": "true veya false olmalıdır"})
			return
		}
		flat = v
	}

	if flat {
		categories, err := h.service.List(c.Request.Context())
		if err != nil {
			apierrors.Handle(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(categories))
		return
	}

	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(tree))
}

// Get handles GET /api/v1/kategoriler/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create handles POST /api/v1/kategoriler.
func (h *CategoryHandler) Create(c *gin.Context) {
	var body models.Category
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	category, err := h.service.Create(c.Request.Context(), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update handles PUT /api/v1/kategoriler/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	var body models.Category
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	category, err := h.service.Update(c.Request.Context(), c.Param("id"), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/v1/kategoriler/:id. Categories with children
// cannot be deleted.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
