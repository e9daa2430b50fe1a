// Package client is the HTTP rendition of the agreement/tenancy services, for
// deployments where the wizard runs apart from the resource backend. It is
// stateless; failures carry the same apperrors kinds the local usecases use,
// derived from the response status.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"rentdesk-backend/internal/apperrors"
)

type Client struct {
	baseURL string
	http    *http.Client
	// bearer token forwarded on every call; empty means unauthenticated.
	token string
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		token:   token,
	}
}

// do runs one JSON request/response round trip. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(apperrors.KindServer, "encode request", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Wrap(apperrors.KindServer, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindNetwork, method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apperrors.FromStatus(resp.StatusCode, errorMessage(resp.Body, method, path, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.KindServer, "decode response", err)
	}
	return nil
}

func errorMessage(body io.Reader, method, path string, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("%s %s: status %d", method, path, status)
}
