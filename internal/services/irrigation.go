package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// IrrigationService manages irrigation records. The end time is derived
// from start and duration on every write.
type IrrigationService interface {
	List(ctx context.Context, where map[string]interface{}) ([]models.IrrigationRecord, error)
	Get(ctx context.Context, id string) (*models.IrrigationRecord, error)

	// Create stores a record, copying the season of its well.
	Create(ctx context.Context, caller auth.Context, r *models.IrrigationRecord) (*models.IrrigationRecord, error)

	// Update rewrites a record. The season is taken from the well again
	// when the well changes.
	Update(ctx context.Context, id string, r *models.IrrigationRecord) (*models.IrrigationRecord, error)

	Delete(ctx context.Context, id string) error
}

type irrigationService struct {
	store *repository.Store
	log   *logger.Logger
}

// NewIrrigationService creates a new instance of IrrigationService.
func NewIrrigationService(store *repository.Store, log *logger.Logger) IrrigationService {
	return &irrigationService{
		store: store,
		log:   log.WithComponent("irrigation"),
	}
}

var irrigationPreload = []string{"Field", "Well"}

func (s *irrigationService) List(ctx context.Context, where map[string]interface{}) ([]models.IrrigationRecord, error) {
	return s.store.Irrigation.Find(ctx, repository.Filter{
		Where:   where,
		Order:   "start_time DESC, id",
		Preload: irrigationPreload,
	})
}

func (s *irrigationService) Get(ctx context.Context, id string) (*models.IrrigationRecord, error) {
	r, err := s.store.Irrigation.FindByID(ctx, id, irrigationPreload...)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: sulama kaydı %s", ErrNotFound, id)
	}
	return r, nil
}

func (s *irrigationService) Create(ctx context.Context, caller auth.Context, r *models.IrrigationRecord) (*models.IrrigationRecord, error) {
	r.ID = ""
	well, err := s.prepare(ctx, r)
	if err != nil {
		return nil, err
	}
	r.SeasonID = well.SeasonID
	r.CreatedBy = nil
	if caller != nil {
		r.CreatedBy = models.StringPtr(caller.UserID())
	}

	if err := s.store.Irrigation.Create(ctx, r); err != nil {
		return nil, err
	}

	s.log.Info("Irrigation record created", logger.Fields{
		"sulama_kaydi_id": r.ID,
		"tarla_id":        r.FieldID,
		"kuyu_id":         r.WellID,
		"sure":            r.Duration,
	})
	return s.Get(ctx, r.ID)
}

func (s *irrigationService) Update(ctx context.Context, id string, r *models.IrrigationRecord) (*models.IrrigationRecord, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.ID = id
	well, err := s.prepare(ctx, r)
	if err != nil {
		return nil, err
	}
	r.SeasonID = existing.SeasonID
	if r.WellID != existing.WellID {
		r.SeasonID = well.SeasonID
	}
	r.CreatedBy = existing.CreatedBy

	if err := s.store.Irrigation.Update(ctx, r); err != nil {
		return nil, err
	}

	s.log.Info("Irrigation record updated", logger.Fields{"sulama_kaydi_id": id})
	return s.Get(ctx, id)
}

// prepare validates the record, resolves its field and well and derives the end time.
func (s *irrigationService) prepare(ctx context.Context, r *models.IrrigationRecord) (*models.Well, error) {
	if err := models.Validate(r); err != nil {
		return nil, err
	}

	field, err := s.store.Fields.FindByID(ctx, r.FieldID)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, fmt.Errorf("%w: tarla %s", ErrNotFound, r.FieldID)
	}
	well, err := s.store.Wells.FindByID(ctx, r.WellID)
	if err != nil {
		return nil, err
	}
	if well == nil {
		return nil, fmt.Errorf("%w: kuyu %s", ErrNotFound, r.WellID)
	}

	r.DeriveEndTime()
	return well, nil
}

func (s *irrigationService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Irrigation.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: sulama kaydı %s", ErrNotFound, id)
	}
	s.log.Info("Irrigation record deleted", logger.Fields{"sulama_kaydi_id": id})
	return nil
}
