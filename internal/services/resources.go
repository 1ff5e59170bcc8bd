package services

import (
	"context"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// Resources bundles the plain CRUD services.
type Resources struct {
	Owners      *CRUDService[models.Owner, *models.Owner]
	Seasons     *CRUDService[models.Season, *models.Season]
	Wells       *CRUDService[models.Well, *models.Well]
	Fields      *CRUDService[models.Field, *models.Field]
	Fertilizers *CRUDService[models.Fertilizer, *models.Fertilizer]
	Inventory   *CRUDService[models.InventoryItem, *models.InventoryItem]
	Invoices    *CRUDService[models.WellInvoice, *models.WellInvoice]
}

// NewResources wires the CRUD services and their reference checks.
func NewResources(store *repository.Store, log *logger.Logger) *Resources {
	return &Resources{
		Owners:  NewCRUDService[models.Owner](store.Owners, "sahip", log),
		Seasons: NewCRUDService[models.Season](store.Seasons, "sezon", log),
		Wells: NewCRUDService[models.Well](store.Wells, "kuyu", log, "Season").
			WithReferenceCheck(func(ctx context.Context, w *models.Well) error {
				return RequireRef(ctx, store.Seasons, "sezon_id", w.SeasonID)
			}),
		Fields: NewCRUDService[models.Field](store.Fields, "tarla", log, "Well", "Season").
			WithReferenceCheck(func(ctx context.Context, f *models.Field) error {
				if err := RequireRef(ctx, store.Wells, "kuyu_id", f.WellID); err != nil {
					return err
				}
				return RequireRef(ctx, store.Seasons, "sezon_id", f.SeasonID)
			}),
		Fertilizers: NewCRUDService[models.Fertilizer](store.Fertilizers, "gubre", log, "Season").
			WithReferenceCheck(func(ctx context.Context, f *models.Fertilizer) error {
				return RequireRef(ctx, store.Seasons, "sezon_id", f.SeasonID)
			}),
		Inventory: NewCRUDService[models.InventoryItem](store.Inventory, "envanter", log, "Category").
			WithReferenceCheck(func(ctx context.Context, i *models.InventoryItem) error {
				return RequireRef[models.Category](ctx, store.Categories, "kategori_id", i.CategoryID)
			}),
		Invoices: NewCRUDService[models.WellInvoice](store.Invoices, "kuyu_faturasi", log, "Well").
			WithReferenceCheck(func(ctx context.Context, inv *models.WellInvoice) error {
				return RequireRef(ctx, store.Wells, "kuyu_id", &inv.WellID)
			}),
	}
}
