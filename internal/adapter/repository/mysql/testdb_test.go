package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM, JSON as TEXT) ---

type agreementSQLite struct {
	ID           uint64         `gorm:"primaryKey;column:id"`
	AgreementID  string         `gorm:"size:32;column:agreement_id"`
	TemplateName string         `gorm:"column:template_name"`
	StateCode    string         `gorm:"column:state_code"`
	Clauses      string         `gorm:"type:text;column:clauses"`
	Signers      string         `gorm:"type:text;column:signers"`
	Status       string         `gorm:"type:text;column:status"`
	Version      int            `gorm:"column:version"`
	PDFURL       string         `gorm:"column:pdf_url"`
	CreatedBy    string         `gorm:"column:created_by"`
	TenancyID    string         `gorm:"column:tenancy_id"`
	TenancyData  string         `gorm:"type:text;column:tenancy_data"`
	LastSignedAt *time.Time     `gorm:"column:last_signed_at"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (agreementSQLite) TableName() string { return "agreements" }

type tenancySQLite struct {
	ID          uint64         `gorm:"primaryKey;column:id"`
	TenancyID   string         `gorm:"size:32;column:tenancy_id"`
	UnitID      string         `gorm:"column:unit_id"`
	OwnerID     string         `gorm:"column:owner_id"`
	TenantID    string         `gorm:"column:tenant_id"`
	AgreementID string         `gorm:"column:agreement_id"`
	Rent        string         `gorm:"type:text;column:rent"`
	Deposit     string         `gorm:"type:text;column:deposit"`
	Status      string         `gorm:"type:text;column:status"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (tenancySQLite) TableName() string { return "tenancies" }

type unitSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	UnitID    string         `gorm:"size:32;column:unit_id"`
	OwnerID   string         `gorm:"column:owner_id"`
	Title     string         `gorm:"column:title"`
	Line1     string         `gorm:"column:line1"`
	Line2     string         `gorm:"column:line2"`
	City      string         `gorm:"column:city"`
	State     string         `gorm:"column:state"`
	Pincode   string         `gorm:"column:pincode"`
	Beds      int            `gorm:"column:beds"`
	AreaSqFt  float64        `gorm:"column:area_sq_ft"`
	Status    string         `gorm:"type:text;column:status"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (unitSQLite) TableName() string { return "units" }

type userSQLite struct {
	ID           uint64         `gorm:"primaryKey;column:id"`
	UserID       string         `gorm:"size:32;column:user_id"`
	Email        string         `gorm:"column:email"`
	PasswordHash string         `gorm:"column:password_hash"`
	FirstName    string         `gorm:"column:first_name"`
	LastName     string         `gorm:"column:last_name"`
	Phone        string         `gorm:"column:phone"`
	Role         string         `gorm:"type:text;column:role"`
	IsActive     bool           `gorm:"column:is_active"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schemas.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&agreementSQLite{}, &tenancySQLite{}, &unitSQLite{}, &userSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
