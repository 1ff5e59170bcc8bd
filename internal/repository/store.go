package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/models"
)

// Store groups the repositories bound to one database handle.
// Inside Transaction every repository of the provided Store shares the transaction.
type Store struct {
	db *gorm.DB

	Owners        OwnerRepository
	Seasons       Repository[models.Season]
	Wells         Repository[models.Well]
	Fields        FieldRepository
	Ownerships    OwnershipRepository
	Fertilizers   Repository[models.Fertilizer]
	Categories    CategoryRepository
	Inventory     Repository[models.InventoryItem]
	Irrigation    IrrigationRepository
	Invoices      InvoiceRepository
	Payments      Repository[models.PaymentRecord]
	Debts         DebtRepository
	Users         UserRepository
	Sessions      SessionRepository
	Notifications NotificationRepository
}

// New creates a Store over the database's gorm handle.
func New(db *database.Database) *Store {
	return newStore(db.Gorm)
}

func newStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Owners:        &ownerRepository{newRepository[models.Owner](db)},
		Seasons:       newRepository[models.Season](db),
		Wells:         newRepository[models.Well](db),
		Fields:        &fieldRepository{newRepository[models.Field](db)},
		Ownerships:    &ownershipRepository{newRepository[models.FieldOwnership](db)},
		Fertilizers:   newRepository[models.Fertilizer](db),
		Categories:    &categoryRepository{newRepository[models.Category](db)},
		Inventory:     newRepository[models.InventoryItem](db),
		Irrigation:    &irrigationRepository{newRepository[models.IrrigationRecord](db)},
		Invoices:      &invoiceRepository{newRepository[models.WellInvoice](db)},
		Payments:      newRepository[models.PaymentRecord](db),
		Debts:         &debtRepository{newRepository[models.MutualDebt](db)},
		Users:         &userRepository{newRepository[models.User](db)},
		Sessions:      &sessionRepository{newRepository[models.Session](db)},
		Notifications: &notificationRepository{newRepository[models.Notification](db)},
	}
}

// Transaction runs fn as one unit of work. Any error returned by fn, or a
// panic, rolls back every write made through the transactional Store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx))
	})
}
