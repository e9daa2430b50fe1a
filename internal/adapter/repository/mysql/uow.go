package mysql

import (
	"context"

	"rentdesk-backend/internal/domain/agreement"
	"rentdesk-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Agreements: &AgreementRepository{db: tx},
		Tenancies:  &TenancyRepository{db: tx},
		Units:      &UnitRepository{db: tx},
		Users:      &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinAgreementTx(ctx context.Context, agreementID string, fn func(r uow.Repos, a *agreement.Agreement) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the agreement row up-front to prevent racing sign calls
		a, err := r.Agreements.GetByAgreementIDForUpdate(ctx, agreementID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
