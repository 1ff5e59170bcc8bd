package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// Entity is a pointer to a stored document type.
type Entity[T any] interface {
	*T
	models.Identifiable
}

// ReferenceCheck verifies the documents an entity points to before a write.
type ReferenceCheck[T any] func(ctx context.Context, entity *T) error

// CRUDService implements list/get/create/update/delete for a document type
// with defaults and validation applied before every write.
type CRUDService[T any, P Entity[T]] struct {
	repo    repository.Repository[T]
	name    string
	preload []string
	check   ReferenceCheck[T]
	log     *logger.Logger
}

// NewCRUDService creates a CRUDService. preload names the associations
// returned with every read.
func NewCRUDService[T any, P Entity[T]](repo repository.Repository[T], name string, log *logger.Logger, preload ...string) *CRUDService[T, P] {
	return &CRUDService[T, P]{
		repo:    repo,
		name:    name,
		preload: preload,
		log:     log.WithComponent(name),
	}
}

// WithReferenceCheck installs a check run before create and update.
func (s *CRUDService[T, P]) WithReferenceCheck(check ReferenceCheck[T]) *CRUDService[T, P] {
	s.check = check
	return s
}

// List returns documents whose columns equal the given values.
func (s *CRUDService[T, P]) List(ctx context.Context, where map[string]interface{}) ([]T, error) {
	return s.repo.Find(ctx, repository.Filter{Where: where, Preload: s.preload})
}

// Get returns a document or ErrNotFound.
func (s *CRUDService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id, s.preload...)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
	}
	return entity, nil
}

// Create validates and stores a new document.
func (s *CRUDService[T, P]) Create(ctx context.Context, entity *T) (*T, error) {
	P(entity).SetID("")
	if err := s.prepare(ctx, entity); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	id := P(entity).GetID()
	s.log.Info("Document created", logger.Fields{"id": id})
	return s.Get(ctx, id)
}

// Update validates and overwrites an existing document.
func (s *CRUDService[T, P]) Update(ctx context.Context, id string, entity *T) (*T, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	P(entity).SetID(id)
	if err := s.prepare(ctx, entity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	s.log.Info("Document updated", logger.Fields{"id": id})
	return s.Get(ctx, id)
}

// Delete removes a document or returns ErrNotFound.
func (s *CRUDService[T, P]) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
	}

	s.log.Info("Document deleted", logger.Fields{"id": id})
	return nil
}

func (s *CRUDService[T, P]) prepare(ctx context.Context, entity *T) error {
	if d, ok := any(entity).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := models.Validate(entity); err != nil {
		return err
	}
	if s.check != nil {
		return s.check(ctx, entity)
	}
	return nil
}

// RequireRef fails with a validation error on key when the optional
// reference id does not resolve in repo.
func RequireRef[T any](ctx context.Context, repo repository.Repository[T], key string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	found, err := repo.FindByID(ctx, *id)
	if err != nil {
		return err
	}
	if found == nil {
		return models.NewValidationError(key, fmt.Sprintf("%s kaydı bulunamadı", *id))
	}
	return nil
}
