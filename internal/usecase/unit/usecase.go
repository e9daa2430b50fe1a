package unit

import (
	"context"
	"errors"
	"time"

	"rentdesk-backend/internal/apperrors"
	unitDomain "rentdesk-backend/internal/domain/unit"
	"rentdesk-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct{ repo unitDomain.Repository }

func NewUsecase(r unitDomain.Repository) *Usecase { return &Usecase{repo: r} }

type CreateUnitInput struct {
	OwnerID  string  `json:"owner_id" validate:"required,hex32"`
	Title    string  `json:"title" validate:"required"`
	Line1    string  `json:"line1,omitempty"`
	Line2    string  `json:"line2,omitempty"`
	City     string  `json:"city,omitempty"`
	State    string  `json:"state,omitempty"`
	Pincode  string  `json:"pincode,omitempty"`
	Beds     int     `json:"beds" validate:"gte=0"`
	AreaSqFt float64 `json:"area_sq_ft" validate:"gte=0,dec2"`
}

type UnitDTO struct {
	UnitID    string    `json:"unit_id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Line1     string    `json:"line1,omitempty"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Pincode   string    `json:"pincode,omitempty"`
	Beds      int       `json:"beds"`
	AreaSqFt  float64   `json:"area_sq_ft"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(u *unitDomain.Unit) *UnitDTO {
	return &UnitDTO{
		UnitID:    u.UnitID,
		OwnerID:   u.OwnerID,
		Title:     u.Title,
		Line1:     u.Line1,
		Line2:     u.Line2,
		City:      u.City,
		State:     u.State,
		Pincode:   u.Pincode,
		Beds:      u.Beds,
		AreaSqFt:  u.AreaSqFt,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateUnitInput) (*UnitDTO, error) {
	un := &unitDomain.Unit{
		UnitID:   id.NewID32(),
		OwnerID:  in.OwnerID,
		Title:    in.Title,
		Line1:    in.Line1,
		Line2:    in.Line2,
		City:     in.City,
		State:    in.State,
		Pincode:  in.Pincode,
		Beds:     in.Beds,
		AreaSqFt: in.AreaSqFt,
		Status:   unitDomain.StatusAvailable,
	}
	if err := u.repo.Create(ctx, un); err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "create unit", err)
	}
	return toDTO(un), nil
}

func (u *Usecase) GetByUnitID(ctx context.Context, unitID string) (*UnitDTO, error) {
	un, err := u.repo.GetByUnitID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "unit "+unitID, unitDomain.ErrNotFound)
		}
		return nil, apperrors.Wrap(apperrors.KindServer, "get unit", err)
	}
	return toDTO(un), nil
}

func (u *Usecase) ListByOwner(ctx context.Context, ownerID string) ([]UnitDTO, error) {
	us, err := u.repo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "list units", err)
	}
	out := make([]UnitDTO, 0, len(us))
	for i := range us {
		out = append(out, *toDTO(&us[i]))
	}
	return out, nil
}
