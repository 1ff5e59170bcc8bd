package models

import "time"

// Owner types.
const (
	OwnerIndividual = "bireysel"
	OwnerCorporate  = "kurumsal"
)

// Owner is a person or company holding shares in one or more fields.
type Owner struct {
	Base
	Name   string  `gorm:"size:200;not null" json:"ad" validate:"required,max=200"`
	Type   string  `gorm:"size:20;not null" json:"tur" validate:"required,oneof=bireysel kurumsal"`
	UserID *string `gorm:"size:36;index" json:"kullanici_id,omitempty" validate:"omitempty,uuid"`
}

// TableName specifies the table name for GORM.
func (Owner) TableName() string { return "sahipler" }

// ApplyDefaults treats an owner without a type as an individual.
func (o *Owner) ApplyDefaults() {
	if o.Type == "" {
		o.Type = OwnerIndividual
	}
}

// Season is a cultivation period; wells and fields are linked to one.
type Season struct {
	Base
	Name      string    `gorm:"size:100;not null" json:"ad" validate:"required,max=100"`
	StartDate time.Time `gorm:"not null" json:"baslangic_tarihi" validate:"required"`
	EndDate   time.Time `gorm:"not null" json:"bitis_tarihi" validate:"required,gtefield=StartDate"`
	Active    bool      `gorm:"not null;default:false" json:"aktif"`
}

// TableName specifies the table name for GORM.
func (Season) TableName() string { return "sezonlar" }

// ApplyDefaults stores season dates in UTC.
func (s *Season) ApplyDefaults() {
	s.StartDate = s.StartDate.UTC()
	s.EndDate = s.EndDate.UTC()
}

// Well is a water source billed periodically through invoices.
type Well struct {
	Base
	Name     string  `gorm:"size:200;not null" json:"ad" validate:"required,max=200"`
	Capacity float64 `json:"kapasite" validate:"gte=0"`
	Depth    float64 `json:"derinlik" validate:"gte=0"`
	Region   string  `gorm:"size:200" json:"bolge" validate:"max=200"`
	SeasonID *string `gorm:"size:36;index" json:"sezon_id,omitempty" validate:"omitempty,uuid"`
	Season   *Season `gorm:"foreignKey:SeasonID" json:"sezon,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM.
func (Well) TableName() string { return "kuyular" }
