package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fertilizer is a fertilizer stock entry.
type Fertilizer struct {
	Base
	Name      string          `gorm:"size:200;not null" json:"ad" validate:"required,max=200"`
	Type      string          `gorm:"size:100" json:"tur" validate:"max=100"`
	Quantity  float64         `json:"miktar" validate:"gte=0"`
	Unit      string          `gorm:"size:20;not null" json:"birim" validate:"required,max=20"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2)" json:"birim_fiyat" validate:"gte=0"`
	SeasonID  *string         `gorm:"size:36;index" json:"sezon_id,omitempty" validate:"omitempty,uuid"`
	Season    *Season         `gorm:"foreignKey:SeasonID" json:"sezon,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM.
func (Fertilizer) TableName() string { return "gubreler" }

// ApplyDefaults uses kilograms when no unit is given.
func (f *Fertilizer) ApplyDefaults() {
	if f.Unit == "" {
		f.Unit = "kg"
	}
}

// Category is a node of the inventory category hierarchy.
type Category struct {
	Base
	Name        string  `gorm:"size:200;not null" json:"ad" validate:"required,max=200"`
	Description string  `gorm:"type:text" json:"aciklama"`
	ParentID    *string `gorm:"size:36;index" json:"ust_kategori_id,omitempty" validate:"omitempty,uuid"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string { return "kategoriler" }

// CategoryNode is a category with its nested children, built at read time.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"altKategoriler"`
}

// InventoryItem is a piece of equipment or stock kept on the farm.
type InventoryItem struct {
	Base
	Name         string          `gorm:"size:200;not null" json:"ad" validate:"required,max=200"`
	CategoryID   *string         `gorm:"size:36;index" json:"kategori_id,omitempty" validate:"omitempty,uuid"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"kategori,omitempty" validate:"-"`
	Quantity     float64         `json:"miktar" validate:"gte=0"`
	Unit         string          `gorm:"size:20" json:"birim" validate:"max=20"`
	Price        decimal.Decimal `gorm:"type:numeric(14,2)" json:"fiyat" validate:"gte=0"`
	PurchaseDate *time.Time      `json:"alis_tarihi,omitempty"`
	Notes        string          `gorm:"type:text" json:"aciklama"`
}

// TableName specifies the table name for GORM.
func (InventoryItem) TableName() string { return "envanter" }

// ApplyDefaults counts items by piece when no unit is given.
func (i *InventoryItem) ApplyDefaults() {
	if i.Unit == "" {
		i.Unit = "adet"
	}
}
