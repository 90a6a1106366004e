package usecase

import (
	"context"
	"log/slog"

	"fedbridge/internal/adapter/federation"
	"fedbridge/internal/domain"
)

// ListUsers returns a window of the tenant's users in upstream order.
type ListUsers struct {
	directory domain.Directory
	filter    scopeFilter
	logger    *slog.Logger
	metrics   domain.BridgeMetrics
}

// NewListUsers creates a new ListUsers usecase.
func NewListUsers(d domain.Directory, scope domain.TenantScope, l *slog.Logger, m domain.BridgeMetrics) *ListUsers {
	return &ListUsers{
		directory: d,
		filter:    scopeFilter{scope: scope, logger: l, metrics: m},
		logger:    l,
		metrics:   m,
	}
}

// Execute fetches the full upstream listing, drops out-of-tenant records and
// only then applies the offset/limit window, so page boundaries are stable
// within the tenant. A negative limit means "the rest".
func (uc *ListUsers) Execute(ctx context.Context, offset, limit int) ([]*federation.ReadOnlyUser, error) {
	records, err := uc.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]*domain.UserRecord, 0, len(records))
	for _, record := range records {
		if uc.filter.admit(ctx, record) {
			matching = append(matching, record)
		}
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matching) {
		return []*federation.ReadOnlyUser{}, nil
	}

	end := len(matching)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}

	users := make([]*federation.ReadOnlyUser, 0, end-offset)
	for _, record := range matching[offset:end] {
		user, err := federation.NewReadOnlyUser(record, uc.logger, uc.metrics)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
