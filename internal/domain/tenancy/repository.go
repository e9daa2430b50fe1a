package tenancy

import "context"

type Repository interface {
	Create(ctx context.Context, t *Tenancy) error
	GetByTenancyID(ctx context.Context, tenancyID string) (*Tenancy, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]Tenancy, error)
	ListByTenantID(ctx context.Context, tenantID string) ([]Tenancy, error)
	Save(ctx context.Context, t *Tenancy) error
}
