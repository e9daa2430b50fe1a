package client

import (
	"context"
	"net/http"

	tenancyuc "rentdesk-backend/internal/usecase/tenancy"
)

// TenancyClient satisfies wizard.TenancyService over HTTP.
type TenancyClient struct{ c *Client }

func NewTenancyClient(c *Client) *TenancyClient { return &TenancyClient{c: c} }

func (t *TenancyClient) Create(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error) {
	var out tenancyuc.TenancyDTO
	if err := t.c.do(ctx, http.MethodPost, "/tenancies", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
