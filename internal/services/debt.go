package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/notify"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// DebtUpdate holds the editable attributes of a debt. Nil fields are kept.
type DebtUpdate struct {
	Amount  *decimal.Decimal `json:"borc_tutari"`
	DueDate *time.Time       `json:"vade_tarihi"`
	Notes   *string          `json:"aciklama"`
}

// DebtService manages mutual debts and their payment lifecycle:
// Ödenmedi, then Ödendi, then confirmed by the creditor.
type DebtService interface {
	// Create stores a manual debt. The amount is rounded up to a whole unit.
	Create(ctx context.Context, debt *models.MutualDebt) (*models.MutualDebt, error)

	// List returns debts where ownerID is debtor or creditor, optionally by status.
	List(ctx context.Context, ownerID, status string) ([]models.MutualDebt, error)

	Get(ctx context.Context, id string) (*models.MutualDebt, error)

	// Update edits a debt on behalf of its creditor (or an admin). Amount and
	// due date are frozen once the debt is paid. Amounts follow the same
	// rounding as creation.
	Update(ctx context.Context, caller auth.Context, id string, patch DebtUpdate) (*models.MutualDebt, error)

	// Delete removes a debt on behalf of its creditor (or an admin).
	Delete(ctx context.Context, caller auth.Context, id string) error

	// MarkPaid is called by the debtor (or an admin). It sets the status to
	// Ödendi, stamps the payment date and asks the creditor to confirm.
	MarkPaid(ctx context.Context, caller auth.Context, id string) (*models.MutualDebt, error)

	// Confirm is called by the creditor (or an admin) on a paid debt. The
	// payment date is left untouched.
	Confirm(ctx context.Context, caller auth.Context, id string) (*models.MutualDebt, error)
}

type debtService struct {
	store    *repository.Store
	notifier notify.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewDebtService creates a new instance of DebtService.
func NewDebtService(store *repository.Store, notifier notify.Notifier, log *logger.Logger) DebtService {
	return &debtService{
		store:    store,
		notifier: notifier,
		log:      log.WithComponent("debt"),
		now:      time.Now,
	}
}

var debtPreload = []string{"Debtor", "Creditor"}

func (s *debtService) Create(ctx context.Context, debt *models.MutualDebt) (*models.MutualDebt, error) {
	debt.ID = ""
	debt.PaymentID = nil
	debt.Status = models.DebtUnpaid
	debt.PaidAt = nil
	debt.Confirmed = false
	debt.ConfirmedAt = nil
	debt.Amount = roundDebtAmount(debt, debt.Amount)
	if debt.DueDate != nil {
		due := debt.DueDate.UTC()
		debt.DueDate = &due
	}

	if err := models.Validate(debt); err != nil {
		return nil, err
	}
	for _, id := range []string{debt.DebtorID, debt.CreditorID} {
		owner, err := s.store.Owners.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, fmt.Errorf("%w: sahip %s", ErrNotFound, id)
		}
	}

	if err := s.store.Debts.Create(ctx, debt); err != nil {
		return nil, err
	}

	s.log.Info("Manual debt created", logger.Fields{
		"ortak_borc_id": debt.ID,
		"borc_tutari":   debt.Amount.String(),
	})
	return s.Get(ctx, debt.ID)
}

func (s *debtService) List(ctx context.Context, ownerID, status string) ([]models.MutualDebt, error) {
	if status != "" && status != models.DebtUnpaid && status != models.DebtPaid {
		return nil, models.NewValidationError("durum", fmt.Sprintf("durum %q veya %q olmalıdır", models.DebtUnpaid, models.DebtPaid))
	}
	return s.store.Debts.FindByParticipant(ctx, ownerID, status)
}

func (s *debtService) Get(ctx context.Context, id string) (*models.MutualDebt, error) {
	debt, err := s.store.Debts.FindByID(ctx, id, debtPreload...)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, fmt.Errorf("%w: ortak borç %s", ErrNotFound, id)
	}
	return debt, nil
}

func (s *debtService) Update(ctx context.Context, caller auth.Context, id string, patch DebtUpdate) (*models.MutualDebt, error) {
	debt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, debt.Creditor, debt.CreditorID); err != nil {
		return nil, err
	}
	if debt.Status == models.DebtPaid && (patch.Amount != nil || patch.DueDate != nil) {
		return nil, fmt.Errorf("%w: %s", ErrDebtAlreadyPaid, debt.ID)
	}

	if patch.Amount != nil {
		debt.Amount = roundDebtAmount(debt, *patch.Amount)
	}
	if patch.DueDate != nil {
		due := patch.DueDate.UTC()
		debt.DueDate = &due
	}
	if patch.Notes != nil {
		debt.Notes = *patch.Notes
	}

	if err := models.Validate(debt); err != nil {
		return nil, err
	}
	if err := s.store.Debts.Update(ctx, debt); err != nil {
		return nil, err
	}
	s.log.Info("Debt updated", logger.Fields{"ortak_borc_id": id, "user_id": caller.UserID()})
	return s.Get(ctx, id)
}

func (s *debtService) Delete(ctx context.Context, caller auth.Context, id string) error {
	debt, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, debt.Creditor, debt.CreditorID); err != nil {
		return err
	}

	deleted, err := s.store.Debts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: ortak borç %s", ErrNotFound, id)
	}
	s.log.Info("Debt deleted", logger.Fields{"ortak_borc_id": id, "user_id": caller.UserID()})
	return nil
}

// roundDebtAmount rounds manual debts up to a whole unit and debts derived
// from a payment to cents, the precision FanOutDebts produces.
func roundDebtAmount(debt *models.MutualDebt, amount decimal.Decimal) decimal.Decimal {
	if debt.PaymentID == nil {
		return amount.Ceil()
	}
	return amount.Round(2)
}

func (s *debtService) MarkPaid(ctx context.Context, caller auth.Context, id string) (*models.MutualDebt, error) {
	debt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, debt.Debtor, debt.DebtorID); err != nil {
		return nil, err
	}
	if debt.Status == models.DebtPaid {
		return nil, fmt.Errorf("%w: %s", ErrDebtAlreadyPaid, debt.ID)
	}

	paidAt := s.now().UTC()
	debt.Status = models.DebtPaid
	debt.PaidAt = &paidAt
	if err := s.store.Debts.Update(ctx, debt); err != nil {
		return nil, err
	}

	s.log.Info("Debt marked paid", logger.Fields{"ortak_borc_id": debt.ID, "user_id": caller.UserID()})
	s.notify(ctx, debt.Creditor, notify.Notification{
		Title: "Borç ödendi, onay bekliyor",
		Message: fmt.Sprintf("%s, %s TL tutarındaki borcunu ödediğini bildirdi. Lütfen onaylayın.",
			ownerLabel(debt.Debtor, debt.DebtorID), debt.Amount.StringFixed(2)),
		Type: notify.TypeDebtPaid,
	})
	return debt, nil
}

func (s *debtService) Confirm(ctx context.Context, caller auth.Context, id string) (*models.MutualDebt, error) {
	debt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, debt.Creditor, debt.CreditorID); err != nil {
		return nil, err
	}
	if debt.Status != models.DebtPaid {
		return nil, fmt.Errorf("%w: %s", ErrDebtNotPaid, debt.ID)
	}
	if debt.Confirmed {
		return nil, fmt.Errorf("%w: %s", ErrDebtAlreadyConfirmed, debt.ID)
	}

	confirmedAt := s.now().UTC()
	debt.Confirmed = true
	debt.ConfirmedAt = &confirmedAt
	if err := s.store.Debts.Update(ctx, debt); err != nil {
		return nil, err
	}

	s.log.Info("Debt payment confirmed", logger.Fields{"ortak_borc_id": debt.ID, "user_id": caller.UserID()})
	s.notify(ctx, debt.Debtor, notify.Notification{
		Title: "Borç ödemesi onaylandı",
		Message: fmt.Sprintf("%s, %s TL tutarındaki ödemenizi onayladı.",
			ownerLabel(debt.Creditor, debt.CreditorID), debt.Amount.StringFixed(2)),
		Type: notify.TypeDebtConfirmed,
	})
	return debt, nil
}

// authorize allows admins and the user linked to the acting owner.
func (s *debtService) authorize(caller auth.Context, owner *models.Owner, ownerID string) error {
	if caller == nil {
		return ErrForbidden
	}
	if caller.IsAdmin() {
		return nil
	}
	if owner == nil || owner.UserID == nil || *owner.UserID != caller.UserID() {
		s.log.Warn("Debt transition refused", logger.Fields{"user_id": caller.UserID(), "sahip_id": ownerID})
		return fmt.Errorf("%w: only the user of owner %s may do this", ErrForbidden, ownerID)
	}
	return nil
}

func (s *debtService) notify(ctx context.Context, recipient *models.Owner, msg notify.Notification) {
	if recipient == nil || recipient.UserID == nil {
		return
	}
	msg.UserID = *recipient.UserID
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send debt notification", err, logger.Fields{"type": msg.Type})
	}
}

func ownerLabel(o *models.Owner, id string) string {
	if o != nil {
		return o.Name
	}
	return id
}
