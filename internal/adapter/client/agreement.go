package client

import (
	"context"
	"net/http"
	"net/url"

	agreementuc "rentdesk-backend/internal/usecase/agreement"
)

// AgreementClient satisfies wizard.AgreementService over HTTP.
type AgreementClient struct{ c *Client }

func NewAgreementClient(c *Client) *AgreementClient { return &AgreementClient{c: c} }

func (a *AgreementClient) Create(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error) {
	var out agreementuc.AgreementDTO
	if err := a.c.do(ctx, http.MethodPost, "/agreements", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AgreementClient) GetByAgreementID(ctx context.Context, agreementID string) (*agreementuc.AgreementDTO, error) {
	var out agreementuc.AgreementDTO
	if err := a.c.do(ctx, http.MethodGet, "/agreements/"+url.PathEscape(agreementID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AgreementClient) Sign(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error) {
	var out agreementuc.AgreementDTO
	if err := a.c.do(ctx, http.MethodPost, "/agreements/"+url.PathEscape(in.AgreementID)+"/sign", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
