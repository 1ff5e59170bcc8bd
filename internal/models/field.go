package models

import (
	"github.com/shopspring/decimal"
)

// Field statuses.
const (
	FieldActive  = "aktif"
	FieldPassive = "pasif"
	FieldFallow  = "nadas"
)

// Field is a cultivated plot. Area is in decares.
type Field struct {
	Base
	Name       string  `gorm:"size:200;not null" json:"ad" validate:"required,max=200"`
	Area       float64 `gorm:"not null" json:"alan" validate:"gt=0"`
	Status     string  `gorm:"size:20;not null" json:"durum" validate:"required,oneof=aktif pasif nadas"`
	Irrigated  bool    `json:"sulama"`
	Rented     bool    `json:"kiralik"`
	ParcelCode string  `gorm:"size:50" json:"parsel_no" validate:"max=50"`
	SeasonID   *string `gorm:"size:36;index" json:"sezon_id,omitempty" validate:"omitempty,uuid"`
	Crop       string  `gorm:"size:100" json:"urun" validate:"max=100"`
	WellID     *string `gorm:"size:36;index" json:"kuyu_id,omitempty" validate:"omitempty,uuid"`
	Well       *Well   `gorm:"foreignKey:WellID" json:"kuyu,omitempty" validate:"-"`
	Season     *Season `gorm:"foreignKey:SeasonID" json:"sezon,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM.
func (Field) TableName() string { return "tarlalar" }

// ApplyDefaults marks a new field active when no status is given.
func (f *Field) ApplyDefaults() {
	if f.Status == "" {
		f.Status = FieldActive
	}
}

// FieldOwnership groups the owner shares of one field.
type FieldOwnership struct {
	Base
	FieldID string           `gorm:"size:36;not null;uniqueIndex" json:"tarla_id" validate:"required,uuid"`
	Field   *Field           `gorm:"foreignKey:FieldID" json:"tarla,omitempty" validate:"-"`
	Shares  []OwnershipShare `gorm:"foreignKey:OwnershipID" json:"sahipler" validate:"required,min=1,dive"`
	Total   decimal.Decimal  `gorm:"-" json:"toplam_yuzde" validate:"-"`
}

// TableName specifies the table name for GORM.
func (FieldOwnership) TableName() string { return "tarla_sahiplikleri" }

// TotalPercentage sums the share percentages. Nothing forces it to be 100.
func (o *FieldOwnership) TotalPercentage() decimal.Decimal {
	total := decimal.Zero
	for _, s := range o.Shares {
		total = total.Add(s.Percentage)
	}
	return total
}

// OwnershipShare is one owner's percentage of a field.
type OwnershipShare struct {
	Base
	OwnershipID string          `gorm:"size:36;not null;index" json:"-"`
	OwnerID     string          `gorm:"size:36;not null;index" json:"sahip_id" validate:"required,uuid"`
	Owner       *Owner          `gorm:"foreignKey:OwnerID" json:"sahip,omitempty" validate:"-"`
	Percentage  decimal.Decimal `gorm:"type:numeric(7,4);not null" json:"yuzde" validate:"gt=0,lte=100"`
}

// TableName specifies the table name for GORM.
func (OwnershipShare) TableName() string { return "tarla_sahiplik_paylari" }
