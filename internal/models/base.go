package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts travel as JSON numbers, matching what the web client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base carries the identity and timestamps shared by every stored document.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// GetID returns the document id.
func (b *Base) GetID() string {
	return b.ID
}

// SetID overwrites the document id. Used by update handlers so the path id wins over the body.
func (b *Base) SetID(id string) {
	b.ID = id
}

// Identifiable is implemented by every model embedding Base.
type Identifiable interface {
	GetID() string
	SetID(id string)
}

// Defaulter is implemented by models that fill optional fields before validation.
type Defaulter interface {
	ApplyDefaults()
}

// StringPtr returns nil for an empty string and a pointer otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
