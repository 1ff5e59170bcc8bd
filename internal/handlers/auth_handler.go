package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/ciftlik/internal/auth"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

// AuthHandler handles login, logout and the caller's own account.
type AuthHandler struct {
	auth         auth.Service
	accounts     services.AccountService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler instance. cookieSecure sets the
// Secure flag of the session cookie.
func NewAuthHandler(authService auth.Service, accounts services.AccountService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: authService, accounts: accounts, cookieSecure: cookieSecure}
}

// LoginRequest is the body of POST /api/v1/auth/giris.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"sifre" binding:"required"`
}

// LoginResponse carries the session token and the logged-in user.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"son_gecerlilik"`
	User      *models.User `json:"kullanici"`
}

// Login handles POST /api/v1/auth/giris. The token is returned in the body
// and set as the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	session, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, session.Token, maxAge, "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	})
}

// Logout handles POST /api/v1/auth/cikis.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		apierrors.Handle(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/ben.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.accounts.Profile(c.Request.Context(), middleware.GetAuth(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Notifications handles GET /api/v1/bildirimler. okunmamis=true limits the
// list to unread notifications.
func (h *AuthHandler) Notifications(c *gin.Context) {
	unreadOnly := false
	if raw := c.Query("okunmamis"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.ValidationError(c, map[string]string{"okunmamis": "true veya false olmalıdır"})
			return
		}
		unreadOnly = v
	}

	list, err := h.accounts.Notifications(c.Request.Context(), middleware.GetAuth(c), unreadOnly)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// MarkRead handles PUT /api/v1/bildirimler/:id/okundu.
func (h *AuthHandler) MarkRead(c *gin.Context) {
	if err := h.accounts.MarkRead(c.Request.Context(), middleware.GetAuth(c), c.Param("id")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
