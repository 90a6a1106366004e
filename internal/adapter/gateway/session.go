package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"fedbridge/internal/domain"
)

// SessionManager owns the privileged bearer token for the external account
// API. The token is shared by all concurrent directory calls and mutated only
// here, under the mutex. It is fetched lazily, kept until invalidated, and
// never persisted across restarts; its lifetime is managed by the remote
// system, not by a local TTL.
type SessionManager struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	clientID   string
	logger     *slog.Logger
	metrics    domain.BridgeMetrics

	mu    sync.Mutex
	token string
}

// NewSessionManager creates a session manager for the given admin credentials.
func NewSessionManager(httpClient *http.Client, baseURL, username, password, clientID string, logger *slog.Logger, metrics domain.BridgeMetrics) *SessionManager {
	return &SessionManager{
		httpClient: httpClient,
		baseURL:    baseURL,
		username:   username,
		password:   password,
		clientID:   clientID,
		logger:     logger,
		metrics:    metrics,
	}
}

// Token returns the cached bearer token, performing a privileged login first
// if no token is cached. The mutex covers the whole read-with-possible-fetch
// so concurrent callers observe a single in-flight login.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return m.token, nil
	}

	token, err := m.login(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	return token, nil
}

// Invalidate clears the cached token; the next Token call triggers a fresh
// login.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// loginResponse is the body of a successful POST /login.
type loginResponse struct {
	Token string `json:"token"`
}

func (m *SessionManager) login(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/login", m.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthUnavailable, err)
	}
	req.SetBasicAuth(m.username, m.password)
	req.Header.Set("X-Client-Id", m.clientID)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: login did not complete within the caller's budget: %w", domain.ErrInterrupted, err)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		m.logger.WarnContext(ctx, "admin login rejected", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: login returned status %d", domain.ErrAuthUnavailable, resp.StatusCode)
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: login response: %w", domain.ErrAuthUnavailable, err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", domain.ErrAuthUnavailable)
	}

	m.logger.InfoContext(ctx, "admin session token fetched", "client_id", m.clientID)
	if m.metrics != nil {
		m.metrics.RecordTokenFetch()
	}

	return body.Token, nil
}
