package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
)

// Resource is the service side of a plain CRUD endpoint.
type Resource[T any] interface {
	List(ctx context.Context, where map[string]interface{}) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id string, entity *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// QueryFilter maps a list query parameter onto a column equality filter.
type QueryFilter struct {
	Param  string
	Column string
	Bool   bool
}

// ResourceHandler serves list/get/create/update/delete for one resource.
type ResourceHandler[T any] struct {
	service Resource[T]
	filters []QueryFilter
}

// NewResourceHandler creates a ResourceHandler. filters lists the query
// parameters accepted by the list endpoint.
func NewResourceHandler[T any](service Resource[T], filters ...QueryFilter) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: service, filters: filters}
}

// Register mounts the handler's routes on group.
func (h *ResourceHandler[T]) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List handles GET on the collection.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	where, ok := bindFilters(c, h.filters)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), where)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(items))
}

// Get handles GET on a single document.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create handles POST on the collection.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	var body T
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT on a single document.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	var body T
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), &body)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE on a single document.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindFilters reads the allowed filters from the query string. It writes a
// 400 response and returns false on a malformed value.
func bindFilters(c *gin.Context, filters []QueryFilter) (map[string]interface{}, bool) {
	where := make(map[string]interface{})
	for _, f := range filters {
		raw, present := c.GetQuery(f.Param)
		if !present || raw == "" {
			continue
		}
		if !f.Bool {
			where[f.Column] = raw
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.ValidationError(c, map[string]string{f.Param: "true veya false olmalıdır"})
			return nil, false
		}
		where[f.Column] = v
	}
	return where, true
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
