package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// Profile is the logged-in user with the owners linked to the account.
type Profile struct {
	User   *models.User   `json:"kullanici"`
	Owners []models.Owner `json:"sahipler"`
}

// AccountService serves the caller's own profile and notification inbox.
type AccountService interface {
	Profile(ctx context.Context, caller auth.Context) (*Profile, error)
	Notifications(ctx context.Context, caller auth.Context, unreadOnly bool) ([]models.Notification, error)

	// MarkRead returns ErrNotFound for notifications of other users.
	MarkRead(ctx context.Context, caller auth.Context, id string) error
}

type accountService struct {
	store *repository.Store
	log   *logger.Logger
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(store *repository.Store, log *logger.Logger) AccountService {
	return &accountService{store: store, log: log.WithComponent("account")}
}

func (s *accountService) Profile(ctx context.Context, caller auth.Context) (*Profile, error) {
	user, err := s.store.Users.FindByID(ctx, caller.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: kullanıcı %s", ErrNotFound, caller.UserID())
	}

	owners, err := s.store.Owners.Find(ctx, repository.Filter{
		Where: map[string]interface{}{"user_id": user.ID},
		Order: "name",
	})
	if err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []models.Owner{}
	}

	return &Profile{User: user, Owners: owners}, nil
}

func (s *accountService) Notifications(ctx context.Context, caller auth.Context, unreadOnly bool) ([]models.Notification, error) {
	return s.store.Notifications.FindByUser(ctx, caller.UserID(), unreadOnly)
}

func (s *accountService) MarkRead(ctx context.Context, caller auth.Context, id string) error {
	found, err := s.store.Notifications.MarkRead(ctx, id, caller.UserID())
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: bildirim %s", ErrNotFound, id)
	}
	return nil
}
