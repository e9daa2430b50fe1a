package unitmock

import (
	"context"

	domain "rentdesk-backend/internal/domain/unit"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn        func(ctx context.Context, u *domain.Unit) error
	GetByUnitIDFn   func(ctx context.Context, unitID string) (*domain.Unit, error)
	ListByOwnerIDFn func(ctx context.Context, ownerID string) ([]domain.Unit, error)
	SaveFn          func(ctx context.Context, u *domain.Unit) error
}

func (m *Repo) Create(ctx context.Context, u *domain.Unit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUnitID(ctx context.Context, unitID string) (*domain.Unit, error) {
	if m.GetByUnitIDFn != nil {
		return m.GetByUnitIDFn(ctx, unitID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Unit, error) {
	if m.ListByOwnerIDFn != nil {
		return m.ListByOwnerIDFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, u *domain.Unit) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}
