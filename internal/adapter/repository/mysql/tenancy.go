package mysql

import (
	"context"

	tenancyDomain "rentdesk-backend/internal/domain/tenancy"

	"gorm.io/gorm"
)

type TenancyRepository struct{ db *gorm.DB }

func NewTenancyRepository(db *gorm.DB) *TenancyRepository { return &TenancyRepository{db: db} }

func (r *TenancyRepository) Create(ctx context.Context, t *tenancyDomain.Tenancy) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TenancyRepository) Save(ctx context.Context, t *tenancyDomain.Tenancy) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TenancyRepository) GetByTenancyID(ctx context.Context, tenancyID string) (*tenancyDomain.Tenancy, error) {
	var out tenancyDomain.Tenancy
	res := r.db.WithContext(ctx).Where("tenancy_id = ?", tenancyID).First(&out)
	return &out, res.Error
}

func (r *TenancyRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]tenancyDomain.Tenancy, error) {
	var out []tenancyDomain.Tenancy
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *TenancyRepository) ListByTenantID(ctx context.Context, tenantID string) ([]tenancyDomain.Tenancy, error) {
	var out []tenancyDomain.Tenancy
	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
