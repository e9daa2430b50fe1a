package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentdesk-backend/internal/apperrors"
	userDomain "rentdesk-backend/internal/domain/user"
	"rentdesk-backend/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Usecase struct {
	repo      userDomain.Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUsecase(r userDomain.Repository, jwtSecret string, tokenTTL time.Duration) *Usecase {
	return &Usecase{repo: r, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role" validate:"required,oneof=owner tenant"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// Claims is the JWT payload carried in the bearer token.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func toDTO(u *userDomain.User) *UserDTO {
	return &UserDTO{
		UserID:    u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := u.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.Wrap(apperrors.KindValidation, "email already registered", userDomain.ErrEmailTaken)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.KindServer, "check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "hash password", err)
	}

	usr := &userDomain.User{
		UserID:       id.NewID32(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		Role:         userDomain.Role(in.Role),
		IsActive:     true,
	}
	if err := u.repo.Create(ctx, usr); err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "create user", err)
	}
	return toDTO(usr), nil
}

func (u *Usecase) Authenticate(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	usr, err := u.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindValidation, "invalid credentials", userDomain.ErrBadCredentials)
		}
		return nil, apperrors.Wrap(apperrors.KindServer, "lookup user", err)
	}
	if !usr.IsActive {
		return nil, apperrors.Wrap(apperrors.KindValidation, "account disabled", userDomain.ErrBadCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid credentials", userDomain.ErrBadCredentials)
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: usr.UserID,
		Role:   string(usr.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usr.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	})
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "sign token", err)
	}

	usr.LastLoginAt = &now
	if err := u.repo.Save(ctx, usr); err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "record login", err)
	}

	return &AuthResult{Token: signed, User: *toDTO(usr)}, nil
}

func (u *Usecase) GetByUserID(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "user "+userID, userDomain.ErrNotFound)
		}
		return nil, apperrors.Wrap(apperrors.KindServer, "get user", err)
	}
	return toDTO(usr), nil
}

// ListTenants backs the wizard's tenant picker.
func (u *Usecase) ListTenants(ctx context.Context, limit int) ([]UserDTO, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	us, err := u.repo.ListByRole(ctx, userDomain.RoleTenant, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "list tenants", err)
	}
	out := make([]UserDTO, 0, len(us))
	for i := range us {
		out = append(out, *toDTO(&us[i]))
	}
	return out, nil
}
