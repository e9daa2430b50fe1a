package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

type User struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID       string         `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`
	Email        string         `gorm:"size:255;uniqueIndex:ux_users_email_active" json:"email"`
	PasswordHash string         `gorm:"size:128" json:"-"`
	FirstName    string         `gorm:"size:64" json:"first_name"`
	LastName     string         `gorm:"size:64" json:"last_name"`
	Phone        string         `gorm:"size:32" json:"phone,omitempty"`
	Role         Role           `gorm:"type:enum('owner','tenant');default:'tenant'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// FullName is the legal name a signature must match exactly.
func (u *User) FullName() string { return u.FirstName + " " + u.LastName }
