package usecase

import (
	"context"
	"errors"
	"log/slog"

	"fedbridge/internal/adapter/federation"
	"fedbridge/internal/domain"
)

// VerifyResult holds the data returned by VerifyCredentials.
type VerifyResult struct {
	User      *federation.ReadOnlyUser
	HostToken string
}

// VerifyCredentials checks a username/password pair against the external
// account system and, on success, mints a short-lived token for the host
// platform's backends.
type VerifyCredentials struct {
	directory domain.Directory
	filter    scopeFilter
	issuer    domain.HostTokenIssuer
	logger    *slog.Logger
	metrics   domain.BridgeMetrics
}

// NewVerifyCredentials creates a new VerifyCredentials usecase. The issuer
// may be nil, in which case no host token is minted.
func NewVerifyCredentials(d domain.Directory, scope domain.TenantScope, issuer domain.HostTokenIssuer, l *slog.Logger, m domain.BridgeMetrics) *VerifyCredentials {
	return &VerifyCredentials{
		directory: d,
		filter:    scopeFilter{scope: scope, logger: l, metrics: m},
		issuer:    issuer,
		logger:    l,
		metrics:   m,
	}
}

// Execute verifies the credentials. A wrong password and a correct password
// on an out-of-tenant account both come back as ErrInvalidCredentials; giving
// the caller any way to tell them apart would let it enumerate tenants.
func (uc *VerifyCredentials) Execute(ctx context.Context, username, password string) (*VerifyResult, error) {
	record, err := uc.directory.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.filter.admit(ctx, record) {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := federation.NewReadOnlyUser(record, uc.logger, uc.metrics)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{User: user}
	if uc.issuer != nil {
		token, err := uc.issuer.IssueHostToken(user)
		if err != nil {
			uc.logger.ErrorContext(ctx, "failed to issue host token", "error", err)
			return nil, err
		}
		result.HostToken = token
	}

	return result, nil
}
