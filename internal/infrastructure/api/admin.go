package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// AdminAPI groups the administrative endpoints. These bypass the
// shared request contract: no unauthorized sentinel, no error-envelope
// normalization. Each call fails fast with its own fixed message on any
// non-success status. The transport (and its cookie jar) is still shared so
// the calls carry the operator's credentials.
type AdminAPI struct {
	baseURL string
	http    *http.Client
}

func NewAdminAPI(client *Client) *AdminAPI {
	return &AdminAPI{baseURL: client.BaseURL(), http: client.HTTPClient()}
}

func (a *AdminAPI) PendingTransactions(ctx context.Context) (json.RawMessage, error) {
	return a.do(ctx, http.MethodGet, "/admin/transactions/pending", "failed to fetch pending transactions")
}

func (a *AdminAPI) PendingVerifications(ctx context.Context) (json.RawMessage, error) {
	return a.do(ctx, http.MethodGet, "/admin/verifications/pending", "failed to fetch pending verifications")
}

func (a *AdminAPI) ApproveTransaction(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return a.do(ctx, http.MethodPost, "/admin/transactions/"+transactionID+"/approve", "failed to approve transaction")
}

func (a *AdminAPI) RejectTransaction(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return a.do(ctx, http.MethodPost, "/admin/transactions/"+transactionID+"/reject", "failed to reject transaction")
}

func (a *AdminAPI) VerifyUser(ctx context.Context, userID string) (json.RawMessage, error) {
	return a.do(ctx, http.MethodPost, "/admin/users/"+userID+"/verify", "failed to verify user")
}

func (a *AdminAPI) do(ctx context.Context, method, path, failMsg string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failMsg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: status %d", failMsg, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failMsg, err)
	}
	return json.RawMessage(raw), nil
}
