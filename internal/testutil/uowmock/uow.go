package uowmock

import (
	"context"
	"errors"

	"rentdesk-backend/internal/domain/agreement"
	"rentdesk-backend/internal/domain/uow"
	"rentdesk-backend/internal/testutil/agreementmock"
	"rentdesk-backend/internal/testutil/tenancymock"
	"rentdesk-backend/internal/testutil/unitmock"
	"rentdesk-backend/internal/testutil/usermock"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn          func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinAgreementTxFn func(ctx context.Context, agreementID string, fn func(r uow.Repos, a *agreement.Agreement) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinAgreementTx(ctx context.Context, agreementID string, fn func(r uow.Repos, a *agreement.Agreement) error) error {
	if m.WithinAgreementTxFn != nil {
		return m.WithinAgreementTxFn(ctx, agreementID, fn)
	}
	return errUnimplemented
}

// Passthrough wires the tx callbacks straight to the given mock repos, with
// the agreement lock served from the agreement mock's ForUpdate lookup.
func Passthrough(agreements *agreementmock.Repo, tenancies *tenancymock.Repo, units *unitmock.Repo, users *usermock.Repo) *UoW {
	repos := uow.Repos{Agreements: agreements, Tenancies: tenancies, Units: units, Users: users}
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinAgreementTxFn: func(ctx context.Context, agreementID string, fn func(r uow.Repos, a *agreement.Agreement) error) error {
			a, err := repos.Agreements.GetByAgreementIDForUpdate(ctx, agreementID)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}
