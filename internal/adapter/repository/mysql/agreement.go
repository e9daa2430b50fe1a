package mysql

import (
	"context"

	agreementDomain "rentdesk-backend/internal/domain/agreement"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgreementRepository struct{ db *gorm.DB }

func NewAgreementRepository(db *gorm.DB) *AgreementRepository { return &AgreementRepository{db: db} }

func (r *AgreementRepository) Create(ctx context.Context, a *agreementDomain.Agreement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AgreementRepository) Save(ctx context.Context, a *agreementDomain.Agreement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AgreementRepository) GetByAgreementID(ctx context.Context, agreementID string) (*agreementDomain.Agreement, error) {
	var out agreementDomain.Agreement
	res := r.db.WithContext(ctx).Where("agreement_id = ?", agreementID).First(&out)
	return &out, res.Error
}

func (r *AgreementRepository) GetByAgreementIDForUpdate(ctx context.Context, agreementID string) (*agreementDomain.Agreement, error) {
	var out agreementDomain.Agreement
	tx := r.db.WithContext(ctx)
	// sqlite (tests) has no FOR UPDATE; its writer lock covers us there
	if r.db.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := tx.Where("agreement_id = ?", agreementID).First(&out)
	return &out, res.Error
}
