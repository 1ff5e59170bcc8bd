package services

import "errors"

// Service-level errors. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conflict")
	ErrInvoiceAlreadyPaid   = errors.New("invoice already paid")
	ErrDebtAlreadyPaid      = errors.New("debt already paid")
	ErrDebtNotPaid          = errors.New("debt is not paid yet")
	ErrDebtAlreadyConfirmed = errors.New("debt already confirmed")
	ErrCategoryHasChildren  = errors.New("category has child categories")
	ErrCategoryCycle        = errors.New("category parent would create a cycle")
	ErrFieldWellMismatch    = errors.New("field is not irrigated from the invoiced well")
	ErrOwnershipTotal       = errors.New("ownership shares must sum to 100")
)
