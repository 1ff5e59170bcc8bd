package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// CookieName is the session cookie set on login.
const CookieName = "oturum"

const minPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid session")
	ErrExpiredSession     = errors.New("session expired")
	ErrEmailExists        = errors.New("email already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Service authenticates users and manages their sessions.
type Service interface {
	// Login checks the credentials and opens a new session.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*models.Session, *models.User, error)

	// Logout closes the session of the token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error

	// Resolve returns the caller owning a session token.
	// Returns ErrInvalidSession or ErrExpiredSession when it cannot.
	Resolve(ctx context.Context, token string) (Context, error)

	// CreateUser registers a login account with a bcrypt password hash.
	CreateUser(ctx context.Context, email, name, password, role string) (*models.User, error)

	// GetUser returns a user by id. Returns nil, nil when missing.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type service struct {
	store *repository.Store
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates an auth Service whose sessions live for ttl.
func NewService(store *repository.Store, ttl time.Duration, log *logger.Logger) Service {
	return &service{
		store: store,
		ttl:   ttl,
		log:   log.WithComponent("auth"),
		now:   time.Now,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.Session, *models.User, error) {
	user, err := s.store.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.log.Info("Login attempt for unknown email", nil)
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("Login attempt with wrong password", logger.Fields{"user_id": user.ID})
		return nil, nil, ErrInvalidCredentials
	}

	token, err := generateSecureToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.store.Sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	s.log.Info("User logged in", logger.Fields{"user_id": user.ID})
	return session, user, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Sessions.DeleteByToken(ctx, token)
}

func (s *service) Resolve(ctx context.Context, token string) (Context, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.store.Sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidSession
	}
	if s.now().After(session.ExpiresAt) {
		if err := s.store.Sessions.DeleteByToken(ctx, token); err != nil {
			s.log.Warn("Failed to delete expired session", logger.Fields{"error": err.Error()})
		}
		return nil, ErrExpiredSession
	}

	user, err := s.store.Users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}
	return NewPrincipal(user), nil
}

func (s *service) CreateUser(ctx context.Context, email, name, password, role string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
		Role:  role,
	}
	if err := models.Validate(user); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.store.Users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("User created", logger.Fields{"user_id": user.ID, "role": user.Role})
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users.FindByID(ctx, id)
}

func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
