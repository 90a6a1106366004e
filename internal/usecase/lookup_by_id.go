package usecase

import (
	"context"
	"log/slog"

	"fedbridge/internal/adapter/federation"
	"fedbridge/internal/domain"
)

// LookupByID resolves a federation query for a stable external id into a
// read-only user record.
type LookupByID struct {
	directory domain.Directory
	filter    scopeFilter
	logger    *slog.Logger
	metrics   domain.BridgeMetrics
}

// NewLookupByID creates a new LookupByID usecase.
func NewLookupByID(d domain.Directory, scope domain.TenantScope, l *slog.Logger, m domain.BridgeMetrics) *LookupByID {
	return &LookupByID{
		directory: d,
		filter:    scopeFilter{scope: scope, logger: l, metrics: m},
		logger:    l,
		metrics:   m,
	}
}

// Execute fetches the user from the account API and applies the tenant scope
// filter before exposing it. The by-id path is not tenant-parameterized
// upstream, so the filter is the only thing standing between tenants here.
func (uc *LookupByID) Execute(ctx context.Context, externalID string) (*federation.ReadOnlyUser, error) {
	record, err := uc.directory.LookupByID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if !uc.filter.admit(ctx, record) {
		return nil, domain.ErrNotFound
	}

	return federation.NewReadOnlyUser(record, uc.logger, uc.metrics)
}
