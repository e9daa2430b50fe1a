package uow

import (
	"context"

	"rentdesk-backend/internal/domain/agreement"
	"rentdesk-backend/internal/domain/tenancy"
	"rentdesk-backend/internal/domain/unit"
	"rentdesk-backend/internal/domain/user"
)

type Repos struct {
	Agreements agreement.Repository
	Tenancies  tenancy.Repository
	Units      unit.Repository
	Users      user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the agreement row first, then pass it in
	WithinAgreementTx(ctx context.Context, agreementID string, fn func(r Repos, a *agreement.Agreement) error) error
}
