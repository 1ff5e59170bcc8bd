package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// Notification types.
const (
	TypeDebtCreated   = "borc_olusturuldu"
	TypeDebtPaid      = "borc_odendi"
	TypeDebtConfirmed = "borc_onaylandi"
)

// Notification is a message addressed to one user.
type Notification struct {
	UserID  string
	Title   string
	Message string
	Type    string
}

// Notifier delivers notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier writes every notification to the log.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notify")}
}

func (n *LogNotifier) Send(_ context.Context, msg Notification) error {
	n.log.Info("Notification", logger.Fields{
		"user_id": msg.UserID,
		"type":    msg.Type,
		"title":   msg.Title,
	})
	return nil
}

// StoreNotifier saves notifications to the user's inbox.
type StoreNotifier struct {
	repo repository.NotificationRepository
}

// NewStoreNotifier creates a StoreNotifier.
func NewStoreNotifier(repo repository.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

func (n *StoreNotifier) Send(ctx context.Context, msg Notification) error {
	if msg.UserID == "" {
		return fmt.Errorf("notification %q has no recipient", msg.Title)
	}
	return n.repo.Create(ctx, &models.Notification{
		UserID:  msg.UserID,
		Title:   msg.Title,
		Message: msg.Message,
		Type:    msg.Type,
	})
}

// Multi sends to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, msg Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Send(context.Context, Notification) error { return nil }
