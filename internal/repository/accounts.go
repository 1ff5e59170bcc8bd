package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stwalsh4118/ciftlik/internal/models"
)

// UserRepository adds email lookups over login accounts.
type UserRepository interface {
	Repository[models.User]

	// FindByEmail returns the user with the given email, case-insensitively.
	// Returns nil, nil if no user is found.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	*gormRepository[models.User]
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.conn(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user by email: %w", err)
	}
	return &user, nil
}

// SessionRepository stores login sessions.
type SessionRepository interface {
	Repository[models.Session]

	// FindByToken returns the session for a token.
	// Returns nil, nil if the token is unknown.
	FindByToken(ctx context.Context, token string) (*models.Session, error)

	// DeleteByToken removes the session for a token.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired removes every session that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	*gormRepository[models.Session]
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.conn(ctx).Where("token = ?", token).Take(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := r.conn(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.conn(ctx).Where("expires_at < ?", now.UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// NotificationRepository stores user inbox messages.
type NotificationRepository interface {
	Repository[models.Notification]

	// FindByUser returns the notifications of a user, newest first.
	FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)

	// MarkRead marks a notification of the user as read and reports whether it existed.
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}

type notificationRepository struct {
	*gormRepository[models.Notification]
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	where := map[string]interface{}{"user_id": userID}
	if unreadOnly {
		where["read"] = false
	}
	return r.Find(ctx, Filter{Where: where, Order: "created_at DESC, id"})
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	res := r.conn(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark notification %s read: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
