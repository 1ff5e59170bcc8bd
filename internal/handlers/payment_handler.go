package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

var paymentFilters = []QueryFilter{
	{Param: "kuyu_fatura_id", Column: "invoice_id"},
	{Param: "tarla_id", Column: "field_id"},
	{Param: "odeyen_sahip_id", Column: "payer_id"},
}

// PaymentHandler records invoice payments.
type PaymentHandler struct {
	service services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler instance.
func NewPaymentHandler(service services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Register mounts the payment routes on group. Deleting a payment rewrites
// the debt ledger, so it is limited to administrators.
func (h *PaymentHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

// Create handles POST /api/v1/odeme-kayitlari. The response carries the
// payment and the debts it created.
func (h *PaymentHandler) Create(c *gin.Context) {
	var in services.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// List handles GET /api/v1/odeme-kayitlari.
func (h *PaymentHandler) List(c *gin.Context) {
	where, ok := bindFilters(c, paymentFilters)
	if !ok {
		return
	}

	payments, err := h.service.List(c.Request.Context(), where)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(payments))
}

// Get handles GET /api/v1/odeme-kayitlari/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Delete handles DELETE /api/v1/odeme-kayitlari/:id. The derived debts go
// with it and the invoice is reopened.
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
