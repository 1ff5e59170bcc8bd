package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter narrows a Find call. Where keys are column names compared for
// equality; Preload names associations to load with each row.
type Filter struct {
	Where   map[string]interface{}
	Order   string
	Preload []string
}

// Repository defines the data access operations shared by every document type.
type Repository[T any] interface {
	// FindByID returns the document with the given id.
	// Returns nil, nil if no document is found (not an error).
	FindByID(ctx context.Context, id string, preload ...string) (*T, error)

	// Find returns every document matching the filter.
	// Returns an empty slice if nothing matches.
	Find(ctx context.Context, filter Filter) ([]T, error)

	// Create inserts the document and assigns its id.
	Create(ctx context.Context, entity *T) error

	// Update overwrites every column of an existing document.
	// Associations are never written through the parent.
	Update(ctx context.Context, entity *T) error

	// Delete removes the document and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// gormRepository is the gorm implementation of Repository.
type gormRepository[T any] struct {
	db   *gorm.DB
	name string
}

func newRepository[T any](db *gorm.DB) *gormRepository[T] {
	name := fmt.Sprintf("%T", new(T))
	if t, ok := any(new(T)).(interface{ TableName() string }); ok {
		name = t.TableName()
	}
	return &gormRepository[T]{db: db, name: name}
}

func (r *gormRepository[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *gormRepository[T]) FindByID(ctx context.Context, id string, preload ...string) (*T, error) {
	q := r.conn(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}

	var entity T
	err := q.Where("id = ?", id).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s %s: %w", r.name, id, err)
	}
	return &entity, nil
}

func (r *gormRepository[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	q := r.conn(ctx)
	if len(filter.Where) > 0 {
		q = q.Where(filter.Where)
	}
	for _, p := range filter.Preload {
		q = q.Preload(p)
	}
	order := filter.Order
	if order == "" {
		order = "created_at, id"
	}

	results := []T{}
	if err := q.Order(order).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.name, err)
	}
	return results, nil
}

func (r *gormRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.conn(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	return nil
}

func (r *gormRepository[T]) Update(ctx context.Context, entity *T) error {
	err := r.conn(ctx).Omit(clause.Associations, "CreatedAt").Save(entity).Error
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.name, err)
	}
	return nil
}

func (r *gormRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete %s %s: %w", r.name, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IsDuplicate reports whether err comes from a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
