package tenancy

import (
	"context"
	"errors"
	"time"

	"rentdesk-backend/internal/apperrors"
	agreementDomain "rentdesk-backend/internal/domain/agreement"
	tenancyDomain "rentdesk-backend/internal/domain/tenancy"
	unitDomain "rentdesk-backend/internal/domain/unit"
	"rentdesk-backend/internal/domain/uow"
	"rentdesk-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	uow  uow.UnitOfWork
	repo tenancyDomain.Repository
}

func NewUsecase(u uow.UnitOfWork, r tenancyDomain.Repository) *Usecase {
	return &Usecase{uow: u, repo: r}
}

type CreateTenancyInput struct {
	AgreementID string `json:"agreement_id" validate:"required,hex32"`
}

type TenancyDTO struct {
	TenancyID   string                `json:"tenancy_id"`
	UnitID      string                `json:"unit_id"`
	OwnerID     string                `json:"owner_id"`
	TenantID    string                `json:"tenant_id"`
	AgreementID string                `json:"agreement_id"`
	Rent        tenancyDomain.Rent    `json:"rent"`
	Deposit     tenancyDomain.Deposit `json:"deposit"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

func toDTO(t *tenancyDomain.Tenancy) *TenancyDTO {
	return &TenancyDTO{
		TenancyID:   t.TenancyID,
		UnitID:      t.UnitID,
		OwnerID:     t.OwnerID,
		TenantID:    t.TenantID,
		AgreementID: t.AgreementID,
		Rent:        t.Rent,
		Deposit:     t.Deposit,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}

// Create materializes the tenancy a signed agreement describes. The agreement
// row stays locked for the whole transaction so a double submit cannot create
// two tenancies from one agreement.
func (u *Usecase) Create(ctx context.Context, in CreateTenancyInput) (*TenancyDTO, error) {
	var out *TenancyDTO
	err := u.uow.WithinAgreementTx(ctx, in.AgreementID, func(r uow.Repos, a *agreementDomain.Agreement) error {
		if a.Status != agreementDomain.StatusSigned {
			return apperrors.Wrap(apperrors.KindValidation, "agreement is not fully signed", agreementDomain.ErrInvalidTransition)
		}
		if a.TenancyID != "" {
			return apperrors.New(apperrors.KindValidation, "agreement already has a tenancy: "+a.TenancyID)
		}

		un, err := r.Units.GetByUnitID(ctx, a.TenancyData.UnitID)
		if err != nil {
			return refError("unit", a.TenancyData.UnitID, err)
		}
		if _, err := r.Users.GetByUserID(ctx, a.TenancyData.TenantID); err != nil {
			return refError("tenant", a.TenancyData.TenantID, err)
		}

		tn := &tenancyDomain.Tenancy{
			TenancyID:   id.NewID32(),
			UnitID:      a.TenancyData.UnitID,
			OwnerID:     a.TenancyData.OwnerID,
			TenantID:    a.TenancyData.TenantID,
			AgreementID: a.AgreementID,
			Rent:        a.TenancyData.Rent,
			Deposit:     a.TenancyData.Deposit,
			Status:      tenancyDomain.StatusUpcoming,
		}
		if err := r.Tenancies.Create(ctx, tn); err != nil {
			return apperrors.Wrap(apperrors.KindServer, "create tenancy", err)
		}

		a.TenancyID = tn.TenancyID
		if err := r.Agreements.Save(ctx, a); err != nil {
			return apperrors.Wrap(apperrors.KindServer, "link agreement to tenancy", err)
		}

		un.Status = unitDomain.StatusOccupied
		if err := r.Units.Save(ctx, un); err != nil {
			return apperrors.Wrap(apperrors.KindServer, "mark unit occupied", err)
		}

		out = toDTO(tn)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "agreement "+in.AgreementID, agreementDomain.ErrNotFound)
		}
		return nil, err
	}
	return out, nil
}

func (u *Usecase) GetByTenancyID(ctx context.Context, tenancyID string) (*TenancyDTO, error) {
	t, err := u.repo.GetByTenancyID(ctx, tenancyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "tenancy "+tenancyID, tenancyDomain.ErrNotFound)
		}
		return nil, apperrors.Wrap(apperrors.KindServer, "get tenancy", err)
	}
	return toDTO(t), nil
}

func (u *Usecase) ListByOwner(ctx context.Context, ownerID string) ([]TenancyDTO, error) {
	ts, err := u.repo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "list tenancies", err)
	}
	out := make([]TenancyDTO, 0, len(ts))
	for i := range ts {
		out = append(out, *toDTO(&ts[i]))
	}
	return out, nil
}

func (u *Usecase) ListByTenant(ctx context.Context, tenantID string) ([]TenancyDTO, error) {
	ts, err := u.repo.ListByTenantID(ctx, tenantID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "list tenancies", err)
	}
	out := make([]TenancyDTO, 0, len(ts))
	for i := range ts {
		out = append(out, *toDTO(&ts[i]))
	}
	return out, nil
}

func refError(what, ref string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.KindNotFound, what+" "+ref+" not found")
	}
	return apperrors.Wrap(apperrors.KindServer, "resolve "+what, err)
}
