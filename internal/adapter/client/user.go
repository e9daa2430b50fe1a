package client

import (
	"context"
	"net/http"
	"net/url"

	useruc "rentdesk-backend/internal/usecase/user"
)

// UserClient satisfies wizard.UserService over HTTP.
type UserClient struct{ c *Client }

func NewUserClient(c *Client) *UserClient { return &UserClient{c: c} }

func (u *UserClient) GetByUserID(ctx context.Context, userID string) (*useruc.UserDTO, error) {
	var out useruc.UserDTO
	if err := u.c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
