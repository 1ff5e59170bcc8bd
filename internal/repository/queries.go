package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stwalsh4118/ciftlik/internal/models"
)

// OwnerRepository adds owner lookups by linked user.
type OwnerRepository interface {
	Repository[models.Owner]

	// FindByUser returns the owner linked to a login account.
	// Returns nil, nil if the user has no owner.
	FindByUser(ctx context.Context, userID string) (*models.Owner, error)
}

type ownerRepository struct {
	*gormRepository[models.Owner]
}

func (r *ownerRepository) FindByUser(ctx context.Context, userID string) (*models.Owner, error) {
	var owner models.Owner
	err := r.conn(ctx).Where("user_id = ?", userID).Order("created_at").Take(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load owner for user %s: %w", userID, err)
	}
	return &owner, nil
}

// FieldRepository adds well-based field lookups.
type FieldRepository interface {
	Repository[models.Field]

	// FindByWell returns the fields irrigated from the given well.
	FindByWell(ctx context.Context, wellID string) ([]models.Field, error)
}

type fieldRepository struct {
	*gormRepository[models.Field]
}

func (r *fieldRepository) FindByWell(ctx context.Context, wellID string) ([]models.Field, error) {
	return r.Find(ctx, Filter{Where: map[string]interface{}{"well_id": wellID}, Order: "name, id"})
}

// OwnershipRepository manages field ownership documents and their shares.
type OwnershipRepository interface {
	Repository[models.FieldOwnership]

	// FindByField returns the ownership of a field with its shares and owners.
	// Returns nil, nil if the field has no ownership document.
	FindByField(ctx context.Context, fieldID string) (*models.FieldOwnership, error)

	// FindByFields returns the ownerships of several fields keyed by field id.
	FindByFields(ctx context.Context, fieldIDs []string) (map[string]*models.FieldOwnership, error)

	// Save creates or updates the ownership and replaces its share list.
	// Callers run it inside a transaction.
	Save(ctx context.Context, ownership *models.FieldOwnership) error

	// DeleteWithShares removes the ownership and all of its shares.
	DeleteWithShares(ctx context.Context, id string) (bool, error)
}

type ownershipRepository struct {
	*gormRepository[models.FieldOwnership]
}

var ownershipPreload = []string{"Shares", "Shares.Owner"}

func (r *ownershipRepository) FindByField(ctx context.Context, fieldID string) (*models.FieldOwnership, error) {
	q := r.conn(ctx)
	for _, p := range ownershipPreload {
		q = q.Preload(p)
	}

	var ownership models.FieldOwnership
	err := q.Where("field_id = ?", fieldID).Take(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load ownership of field %s: %w", fieldID, err)
	}
	return &ownership, nil
}

func (r *ownershipRepository) FindByFields(ctx context.Context, fieldIDs []string) (map[string]*models.FieldOwnership, error) {
	out := make(map[string]*models.FieldOwnership, len(fieldIDs))
	if len(fieldIDs) == 0 {
		return out, nil
	}

	q := r.conn(ctx)
	for _, p := range ownershipPreload {
		q = q.Preload(p)
	}

	var rows []models.FieldOwnership
	if err := q.Where("field_id IN ?", fieldIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ownerships: %w", err)
	}
	for i := range rows {
		out[rows[i].FieldID] = &rows[i]
	}
	return out, nil
}

func (r *ownershipRepository) Save(ctx context.Context, ownership *models.FieldOwnership) error {
	shares := ownership.Shares

	if ownership.ID == "" {
		if err := r.Create(ctx, ownership); err != nil {
			return err
		}
	} else {
		if err := r.Update(ctx, ownership); err != nil {
			return err
		}
		err := r.conn(ctx).Where("ownership_id = ?", ownership.ID).Delete(&models.OwnershipShare{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear shares of ownership %s: %w", ownership.ID, err)
		}
	}

	for i := range shares {
		shares[i].ID = ""
		shares[i].OwnershipID = ownership.ID
	}
	if len(shares) > 0 {
		if err := r.conn(ctx).Omit("Owner").Create(&shares).Error; err != nil {
			return fmt.Errorf("failed to create shares of ownership %s: %w", ownership.ID, err)
		}
	}
	ownership.Shares = shares
	return nil
}

func (r *ownershipRepository) DeleteWithShares(ctx context.Context, id string) (bool, error) {
	err := r.conn(ctx).Where("ownership_id = ?", id).Delete(&models.OwnershipShare{}).Error
	if err != nil {
		return false, fmt.Errorf("failed to delete shares of ownership %s: %w", id, err)
	}
	return r.Delete(ctx, id)
}

// IrrigationRepository adds time-window queries over irrigation records.
type IrrigationRepository interface {
	Repository[models.IrrigationRecord]

	// FindInWindow returns records whose start lies in [start, end].
	// A nil fieldIDs means every field; an empty slice matches nothing.
	FindInWindow(ctx context.Context, start, end time.Time, fieldIDs []string) ([]models.IrrigationRecord, error)
}

type irrigationRepository struct {
	*gormRepository[models.IrrigationRecord]
}

func (r *irrigationRepository) FindInWindow(ctx context.Context, start, end time.Time, fieldIDs []string) ([]models.IrrigationRecord, error) {
	results := []models.IrrigationRecord{}
	if fieldIDs != nil && len(fieldIDs) == 0 {
		return results, nil
	}

	q := r.conn(ctx).
		Preload("Field").
		Where("start_time >= ? AND start_time <= ?", start.UTC(), end.UTC())
	if fieldIDs != nil {
		q = q.Where("field_id IN ?", fieldIDs)
	}

	if err := q.Order("start_time, id").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query irrigation records between %s and %s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return results, nil
}

// InvoiceRepository adds billing-period queries over well invoices.
type InvoiceRepository interface {
	Repository[models.WellInvoice]

	// FindOverlapping returns invoices whose billing period intersects
	// [start, end], earliest start first. An empty wellID means every well.
	FindOverlapping(ctx context.Context, wellID string, start, end time.Time) ([]models.WellInvoice, error)

	// SetPaid flips the paid flag of an invoice. The update only matches an
	// invoice currently in the opposite state, so it reports false when
	// another writer already made the change.
	SetPaid(ctx context.Context, id string, paid bool) (bool, error)
}

type invoiceRepository struct {
	*gormRepository[models.WellInvoice]
}

func (r *invoiceRepository) FindOverlapping(ctx context.Context, wellID string, start, end time.Time) ([]models.WellInvoice, error) {
	q := r.conn(ctx).Where("start_date <= ? AND end_date >= ?", end.UTC(), start.UTC())
	if wellID != "" {
		q = q.Where("well_id = ?", wellID)
	}

	results := []models.WellInvoice{}
	if err := q.Order("start_date, id").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query invoices overlapping %s..%s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return results, nil
}

func (r *invoiceRepository) SetPaid(ctx context.Context, id string, paid bool) (bool, error) {
	res := r.conn(ctx).Model(&models.WellInvoice{}).
		Where("id = ? AND paid = ?", id, !paid).
		Update("paid", paid)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update invoice %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DebtRepository adds participant and payment lookups over mutual debts.
type DebtRepository interface {
	Repository[models.MutualDebt]

	// FindByParticipant returns debts where the owner is debtor or creditor.
	// Empty arguments do not filter.
	FindByParticipant(ctx context.Context, ownerID, status string) ([]models.MutualDebt, error)

	// FindByPayment returns the debts derived from a payment record.
	FindByPayment(ctx context.Context, paymentID string) ([]models.MutualDebt, error)

	// DeleteByPayment removes the debts derived from a payment record.
	DeleteByPayment(ctx context.Context, paymentID string) (int64, error)
}

type debtRepository struct {
	*gormRepository[models.MutualDebt]
}

func (r *debtRepository) FindByParticipant(ctx context.Context, ownerID, status string) ([]models.MutualDebt, error) {
	q := r.conn(ctx).Preload("Debtor").Preload("Creditor")
	if ownerID != "" {
		q = q.Where("debtor_id = ? OR creditor_id = ?", ownerID, ownerID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	results := []models.MutualDebt{}
	if err := q.Order("created_at, id").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list debts of owner %q: %w", ownerID, err)
	}
	return results, nil
}

func (r *debtRepository) FindByPayment(ctx context.Context, paymentID string) ([]models.MutualDebt, error) {
	return r.Find(ctx, Filter{
		Where:   map[string]interface{}{"payment_id": paymentID},
		Preload: []string{"Debtor", "Creditor"},
	})
}

func (r *debtRepository) DeleteByPayment(ctx context.Context, paymentID string) (int64, error) {
	res := r.conn(ctx).Where("payment_id = ?", paymentID).Delete(&models.MutualDebt{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete debts of payment %s: %w", paymentID, res.Error)
	}
	return res.RowsAffected, nil
}

// CategoryRepository adds child lookups over categories.
type CategoryRepository interface {
	Repository[models.Category]

	// CountChildren returns how many categories name id as their parent.
	CountChildren(ctx context.Context, id string) (int64, error)
}

type categoryRepository struct {
	*gormRepository[models.Category]
}

func (r *categoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count children of category %s: %w", id, err)
	}
	return n, nil
}
