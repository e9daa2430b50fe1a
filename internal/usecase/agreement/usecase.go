package agreement

import (
	"context"
	"errors"
	"time"

	"rentdesk-backend/internal/apperrors"
	agreementDomain "rentdesk-backend/internal/domain/agreement"
	unitDomain "rentdesk-backend/internal/domain/unit"
	"rentdesk-backend/internal/domain/uow"
	userDomain "rentdesk-backend/internal/domain/user"
	"rentdesk-backend/pkg/id"

	"gorm.io/gorm"
)

// Usecase errors carry apperrors kinds so callers behave the same whether they
// reach us in-process or through the HTTP resource client.
type Usecase struct {
	uow   uow.UnitOfWork
	repo  agreementDomain.Repository
	units unitDomain.Repository
	users userDomain.Repository
}

func NewUsecase(u uow.UnitOfWork, r agreementDomain.Repository, units unitDomain.Repository, users userDomain.Repository) *Usecase {
	return &Usecase{uow: u, repo: r, units: units, users: users}
}

func (u *Usecase) Create(ctx context.Context, in CreateAgreementInput) (*AgreementDTO, error) {
	if len(in.Clauses) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "agreement needs at least one clause")
	}

	if _, err := u.units.GetByUnitID(ctx, in.UnitID); err != nil {
		return nil, refError("unit", in.UnitID, err)
	}
	tenant, err := u.users.GetByUserID(ctx, in.TenantID)
	if err != nil {
		return nil, refError("tenant", in.TenantID, err)
	}
	if tenant.Role != userDomain.RoleTenant {
		return nil, apperrors.New(apperrors.KindValidation, "selected user is not a tenant")
	}
	if _, err := u.users.GetByUserID(ctx, in.OwnerID); err != nil {
		return nil, refError("owner", in.OwnerID, err)
	}

	clauses := make(agreementDomain.ClauseList, 0, len(in.Clauses))
	for _, c := range in.Clauses {
		clauses = append(clauses, agreementDomain.Clause{Key: c.Key, Text: c.Text})
	}

	a := &agreementDomain.Agreement{
		AgreementID:  id.NewID32(),
		TemplateName: in.TemplateName,
		StateCode:    in.StateCode,
		Clauses:      clauses,
		Signers: agreementDomain.SignerList{
			{UserID: in.OwnerID},
			{UserID: in.TenantID},
		},
		Status:    agreementDomain.StatusPendingSignature,
		Version:   1,
		CreatedBy: in.CreatedBy,
		TenancyData: agreementDomain.TenancyData{
			OwnerID:  in.OwnerID,
			TenantID: in.TenantID,
			UnitID:   in.UnitID,
			Rent:     in.Rent,
			Deposit:  in.Deposit,
		},
	}

	if err := u.repo.Create(ctx, a); err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "create agreement", err)
	}
	return toDTO(a), nil
}

func (u *Usecase) GetByAgreementID(ctx context.Context, agreementID string) (*AgreementDTO, error) {
	a, err := u.repo.GetByAgreementID(ctx, agreementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "agreement "+agreementID, agreementDomain.ErrNotFound)
		}
		return nil, apperrors.Wrap(apperrors.KindServer, "get agreement", err)
	}
	return toDTO(a), nil
}

// Sign records one party's signature. The final outstanding signer flips the
// agreement to signed.
func (u *Usecase) Sign(ctx context.Context, in SignInput) (*AgreementDTO, error) {
	var out *AgreementDTO
	err := u.uow.WithinAgreementTx(ctx, in.AgreementID, func(r uow.Repos, a *agreementDomain.Agreement) error {
		switch a.Status {
		case agreementDomain.StatusPendingSignature:
			// signable
		case agreementDomain.StatusSigned:
			return apperrors.Wrap(apperrors.KindValidation, "agreement is already fully signed", agreementDomain.ErrAlreadySigned)
		default:
			return apperrors.Wrap(apperrors.KindValidation, "agreement is not awaiting signatures", agreementDomain.ErrInvalidTransition)
		}

		s := a.SignerFor(in.UserID)
		if s == nil {
			return apperrors.New(apperrors.KindValidation, "user is not a party to this agreement")
		}
		if s.SignedAt != nil {
			return apperrors.Wrap(apperrors.KindValidation, "user already signed this agreement", agreementDomain.ErrAlreadySigned)
		}

		now := time.Now().UTC()
		s.Name = in.Name
		s.Method = in.Method
		s.SignedAt = &now
		a.LastSignedAt = &now
		if !a.Outstanding() {
			a.Status = agreementDomain.StatusSigned
		}

		if err := r.Agreements.Save(ctx, a); err != nil {
			return apperrors.Wrap(apperrors.KindServer, "save agreement", err)
		}
		out = toDTO(a)
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

func refError(what, ref string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.KindNotFound, what+" "+ref+" not found")
	}
	return apperrors.Wrap(apperrors.KindServer, "resolve "+what, err)
}
