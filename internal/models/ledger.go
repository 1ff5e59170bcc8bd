package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mutual debt payment statuses.
const (
	DebtUnpaid = "Ödenmedi"
	DebtPaid   = "Ödendi"
)

// PaymentRecord records one owner settling a well invoice in full.
// DueDate is PaymentDate plus DeferralMonths calendar months.
type PaymentRecord struct {
	Base
	InvoiceID      string          `gorm:"size:36;not null;index" json:"kuyu_fatura_id" validate:"required,uuid"`
	Invoice        *WellInvoice    `gorm:"foreignKey:InvoiceID" json:"fatura,omitempty" validate:"-"`
	FieldID        string          `gorm:"size:36;not null;index" json:"tarla_id" validate:"required,uuid"`
	Field          *Field          `gorm:"foreignKey:FieldID" json:"tarla,omitempty" validate:"-"`
	PayerID        string          `gorm:"size:36;not null;index" json:"odeyen_sahip_id" validate:"required,uuid"`
	Payer          *Owner          `gorm:"foreignKey:PayerID" json:"odeyen,omitempty" validate:"-"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tutar" validate:"gt=0"`
	PaymentDate    time.Time       `gorm:"not null" json:"odeme_tarihi" validate:"required"`
	DeferralMonths int             `gorm:"not null;default:0" json:"vade_ay" validate:"gte=0,lte=120"`
	DueDate        time.Time       `gorm:"not null" json:"vade_tarihi"`
	Notes          string          `gorm:"type:text" json:"aciklama"`
}

// TableName specifies the table name for GORM.
func (PaymentRecord) TableName() string { return "odeme_kayitlari" }

// MutualDebt states that the debtor owes the creditor an amount.
// PaymentID is empty for manually entered debts.
type MutualDebt struct {
	Base
	PaymentID   *string         `gorm:"size:36;index" json:"odeme_kaydi_id,omitempty" validate:"omitempty,uuid"`
	DebtorID    string          `gorm:"size:36;not null;index" json:"borclu_sahip_id" validate:"required,uuid"`
	Debtor      *Owner          `gorm:"foreignKey:DebtorID" json:"borclu,omitempty" validate:"-"`
	CreditorID  string          `gorm:"size:36;not null;index" json:"alacakli_sahip_id" validate:"required,uuid,nefield=DebtorID"`
	Creditor    *Owner          `gorm:"foreignKey:CreditorID" json:"alacakli,omitempty" validate:"-"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"borc_tutari" validate:"gt=0"`
	DueDate     *time.Time      `json:"vade_tarihi,omitempty"`
	Status      string          `gorm:"size:20;not null;index" json:"durum" validate:"required,oneof=Ödenmedi Ödendi"`
	PaidAt      *time.Time      `json:"odeme_tarihi,omitempty"`
	Confirmed   bool            `gorm:"not null;default:false" json:"onaylandi"`
	ConfirmedAt *time.Time      `json:"onay_tarihi,omitempty"`
	Notes       string          `gorm:"type:text" json:"aciklama"`
}

// TableName specifies the table name for GORM.
func (MutualDebt) TableName() string { return "ortak_borclar" }

// ApplyDefaults starts every debt unpaid.
func (d *MutualDebt) ApplyDefaults() {
	if d.Status == "" {
		d.Status = DebtUnpaid
	}
}
