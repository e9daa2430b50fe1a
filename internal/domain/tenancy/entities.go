package tenancy

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusUpcoming       Status = "upcoming"
	StatusActive         Status = "active"
	StatusTerminated     Status = "terminated"
	StatusPendingRenewal Status = "pendingRenewal"
)

type Cycle string

const (
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleYearly    Cycle = "yearly"
)

type DepositStatus string

const (
	DepositUpcoming DepositStatus = "upcoming"
	DepositHeld     DepositStatus = "held"
	DepositReturned DepositStatus = "returned"
	DepositDisputed DepositStatus = "disputed"
)

var ErrNotFound = errors.New("tenancy not found")

func ValidCycle(c Cycle) bool {
	return c == CycleMonthly || c == CycleQuarterly || c == CycleYearly
}

func ValidDepositStatus(s DepositStatus) bool {
	switch s {
	case DepositUpcoming, DepositHeld, DepositReturned, DepositDisputed:
		return true
	}
	return false
}

// Rent terms are stored as a JSON column; MySQL and SQLite both take them as text.
type Rent struct {
	Amount            float64 `json:"amount"`
	Cycle             Cycle   `json:"cycle"`
	DueDateDay        int     `json:"dueDateDay,omitempty"`
	UtilitiesIncluded bool    `json:"utilitiesIncluded,omitempty"`
}

func (r Rent) Value() (driver.Value, error) { return json.Marshal(r) }

func (r *Rent) Scan(src any) error { return scanJSON(src, r) }

type Deposit struct {
	Amount float64       `json:"amount,omitempty"`
	Status DepositStatus `json:"status,omitempty"`
}

func (d Deposit) Value() (driver.Value, error) { return json.Marshal(d) }

func (d *Deposit) Scan(src any) error { return scanJSON(src, d) }

type Tenancy struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	TenancyID   string         `gorm:"size:32;uniqueIndex:ux_tenancies_tenancy_id_active" json:"tenancy_id"`
	UnitID      string         `gorm:"size:32;index:idx_tenancies_unit" json:"unit_id"`
	OwnerID     string         `gorm:"size:32;index:idx_tenancies_owner" json:"owner_id"`
	TenantID    string         `gorm:"size:32;index:idx_tenancies_tenant" json:"tenant_id"`
	AgreementID string         `gorm:"size:32" json:"agreement_id,omitempty"`
	Rent        Rent           `gorm:"type:json" json:"rent"`
	Deposit     Deposit        `gorm:"type:json" json:"deposit"`
	Status      Status         `gorm:"type:enum('upcoming','active','terminated','pendingRenewal');default:'upcoming'" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenancy) TableName() string { return "tenancies" }

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
