package mysql

import (
	"context"

	unitDomain "rentdesk-backend/internal/domain/unit"

	"gorm.io/gorm"
)

type UnitRepository struct{ db *gorm.DB }

func NewUnitRepository(db *gorm.DB) *UnitRepository { return &UnitRepository{db: db} }

func (r *UnitRepository) Create(ctx context.Context, u *unitDomain.Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UnitRepository) Save(ctx context.Context, u *unitDomain.Unit) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UnitRepository) GetByUnitID(ctx context.Context, unitID string) (*unitDomain.Unit, error) {
	var out unitDomain.Unit
	res := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&out)
	return &out, res.Error
}

func (r *UnitRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]unitDomain.Unit, error) {
	var out []unitDomain.Unit
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
