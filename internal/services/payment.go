package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/notify"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// PaymentInput is the request to record that an owner paid a well invoice.
// Amount defaults to the invoice amount and PaymentDate to now.
type PaymentInput struct {
	InvoiceID      string           `json:"kuyu_fatura_id" validate:"required"`
	FieldID        string           `json:"tarla_id" validate:"required"`
	PayerID        string           `json:"odeyen_sahip_id" validate:"required"`
	Amount         *decimal.Decimal `json:"tutar"`
	PaymentDate    *time.Time       `json:"odeme_tarihi"`
	DeferralMonths int              `json:"vade_ay" validate:"gte=0,lte=120"`
	Notes          string           `json:"aciklama"`
}

// PaymentResult is a stored payment with the debts it produced.
type PaymentResult struct {
	Payment *models.PaymentRecord `json:"odeme_kaydi"`
	Debts   []models.MutualDebt   `json:"borclar"`
}

// PaymentService records invoice payments and fans them out into mutual debts.
type PaymentService interface {
	// Create stores the payment, marks the invoice paid and creates one debt
	// per co-owner of the field, all in one transaction.
	// Returns ErrNotFound for a missing invoice, field or payer and
	// ErrInvoiceAlreadyPaid when the invoice is settled.
	Create(ctx context.Context, in PaymentInput) (*PaymentResult, error)

	// Get returns a payment with its invoice and payer.
	Get(ctx context.Context, id string) (*models.PaymentRecord, error)

	// List returns payments matching the column filters.
	List(ctx context.Context, where map[string]interface{}) ([]models.PaymentRecord, error)

	// Delete removes a payment and its derived debts and reopens the invoice.
	Delete(ctx context.Context, id string) error
}

type paymentService struct {
	store       *repository.Store
	notifier    notify.Notifier
	strictMatch bool
	log         *logger.Logger
	now         func() time.Time
}

// NewPaymentService creates a new instance of PaymentService. When strictMatch
// is set a payment whose field is not irrigated from the invoiced well is rejected.
func NewPaymentService(store *repository.Store, notifier notify.Notifier, strictMatch bool, log *logger.Logger) PaymentService {
	return &paymentService{
		store:       store,
		notifier:    notifier,
		strictMatch: strictMatch,
		log:         log.WithComponent("payment"),
		now:         time.Now,
	}
}

// DueDate adds whole calendar months to the payment date. The months are
// counted on the calendar of paid's location; the result is in UTC.
func DueDate(paid time.Time, months int) time.Time {
	return paid.AddDate(0, months, 0).UTC()
}

// FanOutDebts builds the debts every co-owner other than the payer owes the
// payer: amount × share / sum of shares, rounded to cents. A zero share
// total produces no debts.
func FanOutDebts(payment *models.PaymentRecord, shares []models.OwnershipShare) []models.MutualDebt {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Percentage)
	}
	if !total.IsPositive() {
		return nil
	}

	due := payment.DueDate
	debts := make([]models.MutualDebt, 0, len(shares))
	for _, s := range shares {
		if s.OwnerID == payment.PayerID {
			continue
		}
		amount := payment.Amount.Mul(s.Percentage).DivRound(total, 2)
		if !amount.IsPositive() {
			continue
		}
		paymentID := payment.ID
		debts = append(debts, models.MutualDebt{
			PaymentID:  &paymentID,
			DebtorID:   s.OwnerID,
			Debtor:     s.Owner,
			CreditorID: payment.PayerID,
			Creditor:   payment.Payer,
			Amount:     amount,
			DueDate:    &due,
			Status:     models.DebtUnpaid,
			Notes:      fmt.Sprintf("Kuyu faturası ödemesinden payınıza düşen borç (%s)", payment.PaymentDate.Format("02.01.2006")),
		})
	}
	return debts
}

func (s *paymentService) Create(ctx context.Context, in PaymentInput) (*PaymentResult, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	if in.Amount != nil && !in.Amount.IsPositive() {
		return nil, models.NewValidationError("tutar", "tutar sıfırdan büyük olmalıdır")
	}

	var result *PaymentResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		invoice, err := tx.Invoices.FindByID(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return fmt.Errorf("%w: kuyu faturası %s", ErrNotFound, in.InvoiceID)
		}
		if invoice.Paid {
			return fmt.Errorf("%w: %s", ErrInvoiceAlreadyPaid, invoice.ID)
		}

		field, err := tx.Fields.FindByID(ctx, in.FieldID)
		if err != nil {
			return err
		}
		if field == nil {
			return fmt.Errorf("%w: tarla %s", ErrNotFound, in.FieldID)
		}

		payer, err := tx.Owners.FindByID(ctx, in.PayerID)
		if err != nil {
			return err
		}
		if payer == nil {
			return fmt.Errorf("%w: sahip %s", ErrNotFound, in.PayerID)
		}

		if field.WellID == nil || *field.WellID != invoice.WellID {
			if s.strictMatch {
				return fmt.Errorf("%w: tarla %s, kuyu %s", ErrFieldWellMismatch, field.ID, invoice.WellID)
			}
			s.log.Warn("Payment field is not irrigated from the invoiced well", logger.Fields{
				"tarla_id": field.ID,
				"kuyu_id":  invoice.WellID,
			})
		}

		paidAt := s.now()
		if in.PaymentDate != nil {
			paidAt = *in.PaymentDate
		}
		record := &models.PaymentRecord{
			InvoiceID:      invoice.ID,
			FieldID:        field.ID,
			PayerID:        payer.ID,
			Amount:         invoice.Amount,
			PaymentDate:    paidAt.UTC(),
			DueDate:        DueDate(paidAt, in.DeferralMonths),
			DeferralMonths: in.DeferralMonths,
			Notes:          in.Notes,
		}
		if in.Amount != nil {
			record.Amount = *in.Amount
		}

		if err := models.Validate(record); err != nil {
			return err
		}

		// Claim the invoice before writing anything else: a concurrent
		// payment that committed first leaves no unpaid row to update.
		claimed, err := tx.Invoices.SetPaid(ctx, invoice.ID, true)
		if err != nil {
			return err
		}
		if !claimed {
			return fmt.Errorf("%w: %s", ErrInvoiceAlreadyPaid, invoice.ID)
		}
		if err := tx.Payments.Create(ctx, record); err != nil {
			return err
		}
		invoice.Paid = true
		record.Invoice = invoice
		record.Payer = payer

		ownership, err := tx.Ownerships.FindByField(ctx, field.ID)
		if err != nil {
			return err
		}
		var shares []models.OwnershipShare
		if ownership != nil {
			shares = ownership.Shares
		}
		if !isShareholder(shares, payer.ID) {
			s.log.Warn("Payer holds no share of the field", logger.Fields{
				"tarla_id":        field.ID,
				"odeyen_sahip_id": payer.ID,
			})
		}

		debts := FanOutDebts(record, shares)
		if len(debts) == 0 && len(shares) > 1 {
			s.log.Warn("Field shares sum to zero, no debts created", logger.Fields{"tarla_id": field.ID})
		}
		for i := range debts {
			if err := tx.Debts.Create(ctx, &debts[i]); err != nil {
				return err
			}
		}

		result = &PaymentResult{Payment: record, Debts: debts}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment recorded", logger.Fields{
		"odeme_kaydi_id": result.Payment.ID,
		"kuyu_fatura_id": result.Payment.InvoiceID,
		"tutar":          result.Payment.Amount.String(),
		"debts":          len(result.Debts),
	})

	for _, d := range result.Debts {
		s.notifyDebtor(ctx, result.Payment, d)
	}
	return result, nil
}

func (s *paymentService) notifyDebtor(ctx context.Context, payment *models.PaymentRecord, debt models.MutualDebt) {
	if debt.Debtor == nil || debt.Debtor.UserID == nil {
		s.log.Debug("Debtor has no linked user, skipping notification", logger.Fields{"borclu_sahip_id": debt.DebtorID})
		return
	}

	msg := notify.Notification{
		UserID: *debt.Debtor.UserID,
		Title:  "Yeni ortak borç",
		Message: fmt.Sprintf("%s kuyu faturasını ödedi. Payınıza düşen borç %s TL, vade tarihi %s.",
			payment.Payer.Name, debt.Amount.StringFixed(2), payment.DueDate.Format("02.01.2006")),
		Type: notify.TypeDebtCreated,
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send debt notification", err, logger.Fields{"ortak_borc_id": debt.ID})
	}
}

func (s *paymentService) Get(ctx context.Context, id string) (*models.PaymentRecord, error) {
	p, err := s.store.Payments.FindByID(ctx, id, "Invoice", "Payer", "Field")
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: ödeme kaydı %s", ErrNotFound, id)
	}
	return p, nil
}

func (s *paymentService) List(ctx context.Context, where map[string]interface{}) ([]models.PaymentRecord, error) {
	return s.store.Payments.Find(ctx, repository.Filter{
		Where:   where,
		Order:   "payment_date DESC, id",
		Preload: []string{"Invoice", "Payer"},
	})
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Payments.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: ödeme kaydı %s", ErrNotFound, id)
		}

		removed, err := tx.Debts.DeleteByPayment(ctx, p.ID)
		if err != nil {
			return err
		}
		if _, err := tx.Invoices.SetPaid(ctx, p.InvoiceID, false); err != nil {
			return err
		}
		if _, err := tx.Payments.Delete(ctx, p.ID); err != nil {
			return err
		}

		s.log.Info("Payment deleted", logger.Fields{
			"odeme_kaydi_id": p.ID,
			"debts_removed":  removed,
		})
		return nil
	})
}

func isShareholder(shares []models.OwnershipShare, ownerID string) bool {
	for _, s := range shares {
		if s.OwnerID == ownerID {
			return true
		}
	}
	return false
}
