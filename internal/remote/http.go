package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// HTTPBackend talks to the backend's REST collection API:
//
//	GET    /api/{table}?user_id={id}   pull all rows for a user
//	POST   /api/{table}                insert a row
//	PUT    /api/{table}/{id}           update a row
//	DELETE /api/{table}/{id}           delete a row
//	GET    /api/auth/user              current user, 401 when anonymous
//	POST   /api/auth/login             exchange credentials for a token
//	GET    /health                     reachability probe
//
// tokenFn supplies the bearer token per request so a login during the
// process lifetime is picked up without rebuilding the client.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	tokenFn func() string
}

func NewHTTPBackend(baseURL string, tokenFn func() string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		tokenFn: tokenFn,
	}
}

func (b *HTTPBackend) CurrentUser(ctx context.Context) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := b.doJSON(ctx, http.MethodGet, "/api/auth/user", nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		// Anonymous is not an error, it just means sync has nothing to do.
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Login exchanges credentials for an access token.
func (b *HTTPBackend) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := b.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (b *HTTPBackend) SelectAll(ctx context.Context, table string, userID string) ([]Row, error) {
	path := fmt.Sprintf("/api/%s?user_id=%s", table, url.QueryEscape(userID))
	var rows []Row
	if err := b.doJSON(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (b *HTTPBackend) Insert(ctx context.Context, table string, row Row) error {
	return b.doJSON(ctx, http.MethodPost, "/api/"+table, row, nil)
}

func (b *HTTPBackend) Update(ctx context.Context, table string, id string, row Row) error {
	return b.doJSON(ctx, http.MethodPut, "/api/"+table+"/"+url.PathEscape(id), row, nil)
}

func (b *HTTPBackend) Delete(ctx context.Context, table string, id string) error {
	return b.doJSON(ctx, http.MethodDelete, "/api/"+table+"/"+url.PathEscape(id), nil, nil)
}

func (b *HTTPBackend) Ping(ctx context.Context) error {
	return b.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

func (b *HTTPBackend) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.tokenFn != nil {
		if token := b.tokenFn(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
