package agreementmock

import (
	"context"

	domain "rentdesk-backend/internal/domain/agreement"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled lookups report record-not-found.
type Repo struct {
	CreateFn                    func(ctx context.Context, a *domain.Agreement) error
	GetByAgreementIDFn          func(ctx context.Context, agreementID string) (*domain.Agreement, error)
	GetByAgreementIDForUpdateFn func(ctx context.Context, agreementID string) (*domain.Agreement, error)
	SaveFn                      func(ctx context.Context, a *domain.Agreement) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Agreement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAgreementID(ctx context.Context, agreementID string) (*domain.Agreement, error) {
	if m.GetByAgreementIDFn != nil {
		return m.GetByAgreementIDFn(ctx, agreementID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByAgreementIDForUpdate(ctx context.Context, agreementID string) (*domain.Agreement, error) {
	if m.GetByAgreementIDForUpdateFn != nil {
		return m.GetByAgreementIDForUpdateFn(ctx, agreementID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, a *domain.Agreement) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
