package agreement

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rentdesk-backend/internal/domain/tenancy"
)

type Status string

const (
	StatusDraft            Status = "draft"
	StatusPendingSignature Status = "pending_signature"
	StatusSigned           Status = "signed"
	StatusCancelled        Status = "cancelled"
)

var (
	ErrNotFound          = errors.New("agreement not found")
	ErrInvalidTransition = errors.New("invalid agreement state transition")
	ErrAlreadySigned     = errors.New("agreement already signed by this user")
)

type Clause struct {
	Key  string `json:"key,omitempty"`
	Text string `json:"text"`
}

type ClauseList []Clause

func (l ClauseList) Value() (driver.Value, error) { return json.Marshal(l) }

func (l *ClauseList) Scan(src any) error { return scanJSON(src, l) }

// Signer is one party required on the agreement. SignedAt nil means the
// signature is still outstanding.
type Signer struct {
	UserID   string     `json:"userId"`
	Name     string     `json:"name,omitempty"`
	Method   string     `json:"method,omitempty"`
	SignedAt *time.Time `json:"signedAt,omitempty"`
}

type SignerList []Signer

func (l SignerList) Value() (driver.Value, error) { return json.Marshal(l) }

func (l *SignerList) Scan(src any) error { return scanJSON(src, l) }

// TenancyData carries the would-be tenancy inline. The tenancy record itself
// is only created after signing, so the agreement is the system of record for
// these values until then.
type TenancyData struct {
	OwnerID  string          `json:"ownerId"`
	TenantID string          `json:"tenantId"`
	UnitID   string          `json:"unitId"`
	Rent     tenancy.Rent    `json:"rent"`
	Deposit  tenancy.Deposit `json:"deposit,omitempty"`
}

func (d TenancyData) Value() (driver.Value, error) { return json.Marshal(d) }

func (d *TenancyData) Scan(src any) error { return scanJSON(src, d) }

type Agreement struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	AgreementID  string         `gorm:"size:32;uniqueIndex:ux_agreements_agreement_id_active" json:"agreement_id"`
	TemplateName string         `gorm:"size:64" json:"template_name,omitempty"`
	StateCode    string         `gorm:"size:8" json:"state_code,omitempty"`
	Clauses      ClauseList     `gorm:"type:json" json:"clauses"`
	Signers      SignerList     `gorm:"type:json" json:"signers"`
	Status       Status         `gorm:"type:enum('draft','pending_signature','signed','cancelled');default:'draft'" json:"status"`
	Version      int            `gorm:"default:1" json:"version"`
	PDFURL       string         `gorm:"type:text" json:"pdf_url,omitempty"`
	CreatedBy    string         `gorm:"size:32;index:idx_agreements_created_by" json:"created_by"`
	TenancyID    string         `gorm:"size:32" json:"tenancy_id,omitempty"`
	TenancyData  TenancyData    `gorm:"type:json" json:"tenancy_data"`
	LastSignedAt *time.Time     `json:"last_signed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Agreement) TableName() string { return "agreements" }

// SignerFor returns the signer entry for userID, or nil.
func (a *Agreement) SignerFor(userID string) *Signer {
	for i := range a.Signers {
		if a.Signers[i].UserID == userID {
			return &a.Signers[i]
		}
	}
	return nil
}

// SignedBy reports whether userID has a completed signature on the agreement.
func (a *Agreement) SignedBy(userID string) bool {
	s := a.SignerFor(userID)
	return s != nil && s.SignedAt != nil
}

// Outstanding reports whether any required signer has not signed yet.
func (a *Agreement) Outstanding() bool {
	for i := range a.Signers {
		if a.Signers[i].SignedAt == nil {
			return true
		}
	}
	return false
}

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
