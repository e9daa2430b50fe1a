package unit

import "context"

type Repository interface {
	Create(ctx context.Context, u *Unit) error
	GetByUnitID(ctx context.Context, unitID string) (*Unit, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]Unit, error)
	Save(ctx context.Context, u *Unit) error
}
