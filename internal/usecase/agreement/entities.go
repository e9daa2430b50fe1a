package agreement

import (
	"time"

	agreementDomain "rentdesk-backend/internal/domain/agreement"
	tenancyDomain "rentdesk-backend/internal/domain/tenancy"
)

type ClauseInput struct {
	Key  string `json:"key,omitempty"`
	Text string `json:"text" validate:"required"`
}

type CreateAgreementInput struct {
	// TemplateName is free-text metadata; agreements without one are fine.
	TemplateName string                `json:"template_name,omitempty"`
	StateCode    string                `json:"state_code,omitempty"`
	Clauses      []ClauseInput         `json:"clauses" validate:"required,min=1,dive"`
	OwnerID      string                `json:"owner_id" validate:"required,hex32"`
	TenantID     string                `json:"tenant_id" validate:"required,hex32"`
	UnitID       string                `json:"unit_id" validate:"required,hex32"`
	Rent         tenancyDomain.Rent    `json:"rent"`
	Deposit      tenancyDomain.Deposit `json:"deposit"`
	CreatedBy    string                `json:"created_by" validate:"required,hex32"`
}

type SignInput struct {
	AgreementID string `json:"-"`
	UserID      string `json:"user_id" validate:"required,hex32"`
	Name        string `json:"name" validate:"required"`
	Method      string `json:"method" validate:"required,oneof=manual"`
}

type AgreementDTO struct {
	AgreementID  string                     `json:"agreement_id"`
	TemplateName string                     `json:"template_name,omitempty"`
	StateCode    string                     `json:"state_code,omitempty"`
	Clauses      agreementDomain.ClauseList `json:"clauses"`
	Signers      agreementDomain.SignerList `json:"signers"`
	Status       string                     `json:"status"`
	Version      int                        `json:"version"`
	PDFURL       string                     `json:"pdf_url,omitempty"`
	TenancyID    string                     `json:"tenancy_id,omitempty"`
	TenancyData  agreementDomain.TenancyData `json:"tenancy_data"`
	LastSignedAt *time.Time                 `json:"last_signed_at,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
}

func toDTO(a *agreementDomain.Agreement) *AgreementDTO {
	return &AgreementDTO{
		AgreementID:  a.AgreementID,
		TemplateName: a.TemplateName,
		StateCode:    a.StateCode,
		Clauses:      a.Clauses,
		Signers:      a.Signers,
		Status:       string(a.Status),
		Version:      a.Version,
		PDFURL:       a.PDFURL,
		TenancyID:    a.TenancyID,
		TenancyData:  a.TenancyData,
		LastSignedAt: a.LastSignedAt,
		CreatedAt:    a.CreatedAt,
	}
}
