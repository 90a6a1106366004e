package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"fedbridge/internal/domain"
)

// AccountClient translates federation queries into calls against the external
// account API. Implements domain.Directory.
//
// Records returned here are unscoped: parsing stops at the canonical record,
// and the tenant scope filter is applied by the usecases downstream.
type AccountClient struct {
	httpClient *http.Client
	baseURL    string
	tenant     string
	tokens     domain.TokenSource
	logger     *slog.Logger
	metrics    domain.BridgeMetrics
}

// NewAccountClient creates an account API client with tuned HTTP transport.
func NewAccountClient(baseURL, tenant string, timeout time.Duration, tokens domain.TokenSource, logger *slog.Logger, metrics domain.BridgeMetrics) *AccountClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &AccountClient{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    baseURL,
		tenant:     tenant,
		tokens:     tokens,
		logger:     logger,
		metrics:    metrics,
	}
}

// accountUser is one user object as the account API serializes it.
type accountUser struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Validated *bool  `json:"validated"`
}

// record converts the wire shape into the canonical record. A missing
// validated flag means the account is usable; the upstream only sets it to
// mark accounts explicitly disabled.
func (u accountUser) record() *domain.UserRecord {
	validated := true
	if u.Validated != nil {
		validated = *u.Validated
	}
	return &domain.UserRecord{
		ExternalID: u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		TenantTag:  u.Provider,
		Validated:  validated,
	}
}

// LookupByUsername fetches one user by username within the configured tenant.
// The tenant tag is itself a URL-shaped string (often an issuer URI) and is
// percent-encoded as opaque data, never spliced in as path structure.
func (c *AccountClient) LookupByUsername(ctx context.Context, username string) (*domain.UserRecord, error) {
	path := fmt.Sprintf("%s/users/tenant/%s/username/%s",
		c.baseURL, url.PathEscape(c.tenant), url.PathEscape(username))
	return c.fetchUser(ctx, path)
}

// LookupByID fetches one user by its stable external id.
func (c *AccountClient) LookupByID(ctx context.Context, externalID string) (*domain.UserRecord, error) {
	path := fmt.Sprintf("%s/users/id/%s", c.baseURL, url.PathEscape(externalID))
	return c.fetchUser(ctx, path)
}

func (c *AccountClient) fetchUser(ctx context.Context, path string) (*domain.UserRecord, error) {
	resp, err := c.doAuthed(ctx, func(token string) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, path, nil, token)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: lookup returned status %d", domain.ErrRemoteProtocol, resp.StatusCode)
	}

	var user accountUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.logger.ErrorContext(ctx, "unparsable lookup response", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteProtocol, err)
	}

	// An empty or partial object is the upstream's way of saying "no such
	// user", not a protocol violation.
	if user.UserID == "" {
		return nil, domain.ErrNotFound
	}

	return user.record(), nil
}

// listResponse is the body of GET /users. The listing is unfiltered; tenant
// scoping is this bridge's responsibility.
type listResponse struct {
	Users []accountUser `json:"users"`
}

// ListUsers fetches the full upstream listing in upstream order.
func (c *AccountClient) ListUsers(ctx context.Context) ([]*domain.UserRecord, error) {
	path := fmt.Sprintf("%s/users", c.baseURL)

	resp, err := c.doAuthed(ctx, func(token string) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, path, nil, token)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: listing returned status %d", domain.ErrRemoteProtocol, resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.ErrorContext(ctx, "unparsable listing response", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteProtocol, err)
	}

	records := make([]*domain.UserRecord, 0, len(body.Users))
	for _, user := range body.Users {
		if user.UserID == "" {
			c.logger.WarnContext(ctx, "listing entry without external id skipped", "username", user.Username)
			continue
		}
		records = append(records, user.record())
	}
	return records, nil
}

// verifyRequest is the body of POST /users/verify-credentials.
type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Tenant   string `json:"tenant"`
}

// VerifyCredentials checks a username/password pair within the configured
// tenant. Any non-2xx answer is invalid credentials; whether the password was
// wrong or the account lives under another tenant is deliberately not
// recoverable from the result.
func (c *AccountClient) VerifyCredentials(ctx context.Context, username, password string) (*domain.UserRecord, error) {
	path := fmt.Sprintf("%s/users/verify-credentials", c.baseURL)

	payload, err := json.Marshal(verifyRequest{Username: username, Password: password, Tenant: c.tenant})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteProtocol, err)
	}

	resp, err := c.doAuthed(ctx, func(token string) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, path, payload, token)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.ErrInvalidCredentials
	}

	var user accountUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.logger.ErrorContext(ctx, "unparsable verification response", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteProtocol, err)
	}
	if user.UserID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return user.record(), nil
}

func (c *AccountClient) newRequest(ctx context.Context, method, path string, payload []byte, token string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doAuthed runs one remote call under the retry-once-on-auth-failure
// protocol: fetch a token, call, and on a 401 invalidate the token, fetch a
// fresh one and repeat the call exactly once. A second 401 fails the call.
func (c *AccountClient) doAuthed(ctx context.Context, build func(token string) (*http.Request, error)) (*http.Response, error) {
	resp, err := c.doOnce(ctx, build)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	c.logger.WarnContext(ctx, "admin token rejected, refreshing and retrying once")
	if c.metrics != nil {
		c.metrics.RecordAuthRetry()
	}
	c.tokens.Invalidate()

	resp, err = c.doOnce(ctx, build)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: fresh token rejected by account API", domain.ErrAuthUnavailable)
	}
	return resp, nil
}

func (c *AccountClient) doOnce(ctx context.Context, build func(token string) (*http.Request, error)) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := build(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteProtocol, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordRemoteLatencySeconds(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// The usual cause is the remote system answering slower than the
			// host's own execution budget, not a failed lookup.
			return nil, fmt.Errorf("%w: %w", domain.ErrInterrupted, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteProtocol, err)
	}
	if c.metrics != nil {
		c.metrics.RecordRemoteStatus(resp.StatusCode)
	}
	return resp, nil
}
