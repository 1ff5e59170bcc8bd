package models

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "kullanici"
)

// User is a login account. Owners may be linked to one.
type User struct {
	Base
	Email        string `gorm:"size:254;not null;uniqueIndex" json:"email" validate:"required,email"`
	Name         string `gorm:"size:200" json:"ad" validate:"max=200"`
	Role         string `gorm:"size:20;not null" json:"rol" validate:"required,oneof=admin kullanici"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string { return "kullanicilar" }

// Session is an authenticated login identified by an opaque token.
type Session struct {
	Base
	UserID    string    `gorm:"size:36;not null;index" json:"kullanici_id"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"son_gecerlilik"`
}

// TableName specifies the table name for GORM.
func (Session) TableName() string { return "oturumlar" }

// Notification is a message delivered to a user's inbox.
type Notification struct {
	Base
	UserID  string `gorm:"size:36;not null;index" json:"kullanici_id"`
	Title   string `gorm:"size:200;not null" json:"baslik"`
	Message string `gorm:"type:text" json:"mesaj"`
	Type    string `gorm:"size:50" json:"tur"`
	Read    bool   `gorm:"not null;default:false" json:"okundu"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string { return "bildirimler" }

// All lists every model for schema migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Owner{},
		&Season{},
		&Well{},
		&Field{},
		&FieldOwnership{},
		&OwnershipShare{},
		&Fertilizer{},
		&Category{},
		&InventoryItem{},
		&IrrigationRecord{},
		&WellInvoice{},
		&PaymentRecord{},
		&MutualDebt{},
		&Notification{},
	}
}
