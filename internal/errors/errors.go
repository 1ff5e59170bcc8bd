package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

// Error code constants for standardized error responses
const (
	ErrNotFound       = "NOT_FOUND"
	ErrBadRequest     = "BAD_REQUEST"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
	ErrUnauthorized   = "UNAUTHORIZED"
	ErrForbidden      = "FORBIDDEN"
	ErrConflict       = "CONFLICT"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond logs a client-side failure as a warning and writes the envelope.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		}
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Request rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Unauthorized returns a 401 response for missing or invalid sessions.
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil)
}

// Forbidden returns a 403 response.
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrForbidden, message, nil)
}

// Conflict returns a 409 response for state transitions that are not allowed.
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrConflict, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// The underlying error is logged but never sent to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 response listing the failing fields.
func ValidationError(c *gin.Context, fields map[string]string) {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Bir veya daha fazla alan geçersiz", details)
}

// BindingError reports a request body or query that could not be decoded.
func BindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = formatValidationError(fe)
		}
		ValidationError(c, fields)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		ValidationError(c, map[string]string{typeErr.Field: "Geçersiz değer türü"})
		return
	}

	BadRequest(c, "İstek gövdesi okunamadı", map[string]interface{}{"error": err.Error()})
}

// Handle maps an error returned by a service to its HTTP response.
// Unknown errors become a redacted 500.
func Handle(c *gin.Context, err error) {
	if ve, ok := models.AsValidationError(err); ok {
		ValidationError(c, ve.Fields)
		return
	}

	switch {
	case stderrors.Is(err, services.ErrNotFound):
		NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrInvalidInput),
		stderrors.Is(err, services.ErrFieldWellMismatch),
		stderrors.Is(err, services.ErrOwnershipTotal),
		stderrors.Is(err, services.ErrCategoryCycle),
		stderrors.Is(err, auth.ErrWeakPassword):
		BadRequest(c, err.Error(), nil)
	case stderrors.Is(err, services.ErrForbidden):
		Forbidden(c, "Bu işlem için yetkiniz yok")
	case stderrors.Is(err, services.ErrConflict),
		stderrors.Is(err, services.ErrInvoiceAlreadyPaid),
		stderrors.Is(err, services.ErrDebtAlreadyPaid),
		stderrors.Is(err, services.ErrDebtNotPaid),
		stderrors.Is(err, services.ErrDebtAlreadyConfirmed),
		stderrors.Is(err, services.ErrCategoryHasChildren),
		stderrors.Is(err, auth.ErrEmailExists):
		Conflict(c, err.Error())
	case stderrors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(c, "E-posta veya şifre hatalı")
	case stderrors.Is(err, auth.ErrInvalidSession),
		stderrors.Is(err, auth.ErrExpiredSession):
		Unauthorized(c, "Oturum geçersiz veya süresi dolmuş")
	default:
		InternalServerError(c, "Beklenmeyen bir hata oluştu", err)
	}
}

// formatValidationError converts a validator.FieldError to a Turkish message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Bu alan zorunludur"
	case "email":
		return "Geçerli bir e-posta adresi olmalıdır"
	case "min":
		return "Değer çok kısa veya küçük (en az: " + err.Param() + ")"
	case "max":
		return "Değer çok uzun veya büyük (en fazla: " + err.Param() + ")"
	case "len":
		return "Uzunluk " + err.Param() + " olmalıdır"
	case "gt":
		return err.Param() + " değerinden büyük olmalıdır"
	case "gte":
		return err.Param() + " veya daha büyük olmalıdır"
	case "lt":
		return err.Param() + " değerinden küçük olmalıdır"
	case "lte":
		return err.Param() + " veya daha küçük olmalıdır"
	case "oneof":
		return "Şunlardan biri olmalıdır: " + err.Param()
	case "uuid":
		return "Geçerli bir UUID olmalıdır"
	default:
		return "Doğrulama kuralı sağlanmadı: " + err.Tag()
	}
}
