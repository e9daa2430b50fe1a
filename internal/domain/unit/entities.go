package unit

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

var ErrNotFound = errors.New("unit not found")

type Unit struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	UnitID    string         `gorm:"size:32;uniqueIndex:ux_units_unit_id_active" json:"unit_id"`
	OwnerID   string         `gorm:"size:32;index:idx_units_owner" json:"owner_id"`
	Title     string         `gorm:"size:160" json:"title"`
	Line1     string         `gorm:"size:160" json:"line1,omitempty"`
	Line2     string         `gorm:"size:160" json:"line2,omitempty"`
	City      string         `gorm:"size:64" json:"city,omitempty"`
	State     string         `gorm:"size:64" json:"state,omitempty"`
	Pincode   string         `gorm:"size:16" json:"pincode,omitempty"`
	Beds      int            `json:"beds"`
	AreaSqFt  float64        `gorm:"type:decimal(10,2)" json:"area_sq_ft"`
	Status    Status         `gorm:"type:enum('available','occupied','maintenance');default:'available'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Unit) TableName() string { return "units" }
