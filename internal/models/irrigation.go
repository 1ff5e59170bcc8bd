package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IrrigationRecord is one logged watering of a field from a well.
// Duration is in minutes; EndTime is always StartTime + Duration.
type IrrigationRecord struct {
	Base
	FieldID   string    `gorm:"size:36;not null;index" json:"tarla_id" validate:"required,uuid"`
	Field     *Field    `gorm:"foreignKey:FieldID" json:"tarla,omitempty" validate:"-"`
	WellID    string    `gorm:"size:36;not null;index" json:"kuyu_id" validate:"required,uuid"`
	Well      *Well     `gorm:"foreignKey:WellID" json:"kuyu,omitempty" validate:"-"`
	SeasonID  *string   `gorm:"size:36;index" json:"sezon_id,omitempty" validate:"omitempty,uuid"`
	StartTime time.Time `gorm:"not null;index" json:"baslangic_zamani" validate:"required"`
	Duration  int       `gorm:"not null" json:"sure" validate:"gt=0"`
	EndTime   time.Time `gorm:"not null" json:"bitis_zamani"`
	Notes     string    `gorm:"type:text" json:"aciklama"`
	CreatedBy *string   `gorm:"size:36" json:"olusturan_id,omitempty"`
}

// TableName specifies the table name for GORM.
func (IrrigationRecord) TableName() string { return "sulama_kayitlari" }

// DeriveEndTime normalizes the start to UTC and recomputes the end time.
func (r *IrrigationRecord) DeriveEndTime() {
	r.StartTime = r.StartTime.UTC()
	r.EndTime = r.StartTime.Add(time.Duration(r.Duration) * time.Minute)
}

// WellInvoice is the bill of a well for a billing period.
type WellInvoice struct {
	Base
	WellID    string          `gorm:"size:36;not null;index" json:"kuyu_id" validate:"required,uuid"`
	Well      *Well           `gorm:"foreignKey:WellID" json:"kuyu,omitempty" validate:"-"`
	StartDate time.Time       `gorm:"not null;index" json:"baslangic_tarihi" validate:"required"`
	EndDate   time.Time       `gorm:"not null;index" json:"bitis_tarihi" validate:"required,gtefield=StartDate"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tutar" validate:"gt=0"`
	Paid      bool            `gorm:"not null;default:false" json:"odendi"`
	Notes     string          `gorm:"type:text" json:"aciklama"`
}

// TableName specifies the table name for GORM.
func (WellInvoice) TableName() string { return "kuyu_faturalari" }

// ApplyDefaults stores billing dates in UTC.
func (i *WellInvoice) ApplyDefaults() {
	i.StartDate = i.StartDate.UTC()
	i.EndDate = i.EndDate.UTC()
}

// Overlaps reports whether the billing period intersects [start, end].
func (i *WellInvoice) Overlaps(start, end time.Time) bool {
	return !i.StartDate.After(end) && !i.EndDate.Before(start)
}
