package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// OwnershipService manages the owner shares of fields.
type OwnershipService interface {
	List(ctx context.Context, fieldID string) ([]models.FieldOwnership, error)
	Get(ctx context.Context, id string) (*models.FieldOwnership, error)

	// Save replaces the share list of the ownership's field, creating the
	// ownership when the field has none. A total other than 100 is logged,
	// or rejected with ErrOwnershipTotal in strict mode.
	Save(ctx context.Context, o *models.FieldOwnership) (*models.FieldOwnership, error)

	// Update replaces the shares of an existing ownership.
	Update(ctx context.Context, id string, o *models.FieldOwnership) (*models.FieldOwnership, error)

	Delete(ctx context.Context, id string) error
}

type ownershipService struct {
	store  *repository.Store
	strict bool
	log    *logger.Logger
}

// NewOwnershipService creates a new instance of OwnershipService.
func NewOwnershipService(store *repository.Store, strictTotal bool, log *logger.Logger) OwnershipService {
	return &ownershipService{
		store:  store,
		strict: strictTotal,
		log:    log.WithComponent("ownership"),
	}
}

func (s *ownershipService) List(ctx context.Context, fieldID string) ([]models.FieldOwnership, error) {
	filter := repository.Filter{Preload: []string{"Field", "Shares", "Shares.Owner"}}
	if fieldID != "" {
		filter.Where = map[string]interface{}{"field_id": fieldID}
	}

	list, err := s.store.Ownerships.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Total = list[i].TotalPercentage()
	}
	return list, nil
}

func (s *ownershipService) Get(ctx context.Context, id string) (*models.FieldOwnership, error) {
	o, err := s.store.Ownerships.FindByID(ctx, id, "Field", "Shares", "Shares.Owner")
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: tarla sahipliği %s", ErrNotFound, id)
	}
	o.Total = o.TotalPercentage()
	return o, nil
}

func (s *ownershipService) Save(ctx context.Context, o *models.FieldOwnership) (*models.FieldOwnership, error) {
	if err := s.check(ctx, o); err != nil {
		return nil, err
	}

	var id string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Ownerships.FindByField(ctx, o.FieldID)
		if err != nil {
			return err
		}
		o.ID = ""
		if existing != nil {
			o.ID = existing.ID
			o.CreatedAt = existing.CreatedAt
		}
		if err := tx.Ownerships.Save(ctx, o); err != nil {
			return err
		}
		id = o.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Field ownership saved", logger.Fields{"tarla_id": o.FieldID, "shares": len(o.Shares)})
	return s.Get(ctx, id)
}

func (s *ownershipService) Update(ctx context.Context, id string, o *models.FieldOwnership) (*models.FieldOwnership, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.FieldID == "" {
		o.FieldID = existing.FieldID
	}
	if err := s.check(ctx, o); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if o.FieldID != existing.FieldID {
			other, err := tx.Ownerships.FindByField(ctx, o.FieldID)
			if err != nil {
				return err
			}
			if other != nil {
				return fmt.Errorf("%w: tarla %s already has ownership %s", ErrConflict, o.FieldID, other.ID)
			}
		}
		o.ID = existing.ID
		o.CreatedAt = existing.CreatedAt
		return tx.Ownerships.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Field ownership updated", logger.Fields{"tarla_id": o.FieldID, "shares": len(o.Shares)})
	return s.Get(ctx, id)
}

// check validates the document and its references and applies the total rule.
func (s *ownershipService) check(ctx context.Context, o *models.FieldOwnership) error {
	if err := models.Validate(o); err != nil {
		return err
	}

	seen := make(map[string]bool, len(o.Shares))
	for _, share := range o.Shares {
		if seen[share.OwnerID] {
			return models.NewValidationError("sahipler", fmt.Sprintf("sahip %s birden fazla kez listelenmiş", share.OwnerID))
		}
		seen[share.OwnerID] = true
	}

	field, err := s.store.Fields.FindByID(ctx, o.FieldID)
	if err != nil {
		return err
	}
	if field == nil {
		return fmt.Errorf("%w: tarla %s", ErrNotFound, o.FieldID)
	}
	for _, share := range o.Shares {
		owner, err := s.store.Owners.FindByID(ctx, share.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return fmt.Errorf("%w: sahip %s", ErrNotFound, share.OwnerID)
		}
	}

	total := o.TotalPercentage()
	if !total.Equal(hundred) {
		if s.strict {
			return fmt.Errorf("%w: got %s", ErrOwnershipTotal, total.String())
		}
		s.log.Warn("Field ownership shares do not sum to 100", logger.Fields{
			"tarla_id":     o.FieldID,
			"toplam_yuzde": total.String(),
		})
	}
	return nil
}

func (s *ownershipService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		deleted, err := tx.Ownerships.DeleteWithShares(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: tarla sahipliği %s", ErrNotFound, id)
		}
		return nil
	})
}
