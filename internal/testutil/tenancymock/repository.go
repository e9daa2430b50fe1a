package tenancymock

import (
	"context"

	domain "rentdesk-backend/internal/domain/tenancy"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn         func(ctx context.Context, t *domain.Tenancy) error
	GetByTenancyIDFn func(ctx context.Context, tenancyID string) (*domain.Tenancy, error)
	ListByOwnerIDFn  func(ctx context.Context, ownerID string) ([]domain.Tenancy, error)
	ListByTenantIDFn func(ctx context.Context, tenantID string) ([]domain.Tenancy, error)
	SaveFn           func(ctx context.Context, t *domain.Tenancy) error
}

func (m *Repo) Create(ctx context.Context, t *domain.Tenancy) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTenancyID(ctx context.Context, tenancyID string) (*domain.Tenancy, error) {
	if m.GetByTenancyIDFn != nil {
		return m.GetByTenancyIDFn(ctx, tenancyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Tenancy, error) {
	if m.ListByOwnerIDFn != nil {
		return m.ListByOwnerIDFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *Repo) ListByTenantID(ctx context.Context, tenantID string) ([]domain.Tenancy, error) {
	if m.ListByTenantIDFn != nil {
		return m.ListByTenantIDFn(ctx, tenantID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, t *domain.Tenancy) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
