package agreement

import "context"

type Repository interface {
	Create(ctx context.Context, a *Agreement) error
	GetByAgreementID(ctx context.Context, agreementID string) (*Agreement, error)
	// GetByAgreementIDForUpdate locks the row for the duration of the
	// surrounding transaction; used by the signing flow.
	GetByAgreementIDForUpdate(ctx context.Context, agreementID string) (*Agreement, error)
	Save(ctx context.Context, a *Agreement) error
}
