package usecase

import (
	"context"
	"log/slog"

	"fedbridge/internal/adapter/federation"
	"fedbridge/internal/domain"
)

// LookupByUsername resolves a federation query for a username into a
// read-only user record.
type LookupByUsername struct {
	directory domain.Directory
	filter    scopeFilter
	logger    *slog.Logger
	metrics   domain.BridgeMetrics
}

// NewLookupByUsername creates a new LookupByUsername usecase.
func NewLookupByUsername(d domain.Directory, scope domain.TenantScope, l *slog.Logger, m domain.BridgeMetrics) *LookupByUsername {
	return &LookupByUsername{
		directory: d,
		filter:    scopeFilter{scope: scope, logger: l, metrics: m},
		logger:    l,
		metrics:   m,
	}
}

// Execute fetches the user from the account API and applies the tenant scope
// filter before exposing it.
func (uc *LookupByUsername) Execute(ctx context.Context, username string) (*federation.ReadOnlyUser, error) {
	record, err := uc.directory.LookupByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !uc.filter.admit(ctx, record) {
		return nil, domain.ErrNotFound
	}

	return federation.NewReadOnlyUser(record, uc.logger, uc.metrics)
}
