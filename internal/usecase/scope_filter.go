package usecase

import (
	"context"
	"log/slog"

	"fedbridge/internal/domain"
)

// scopeFilter is the defense-in-depth tenant check applied to every record
// the directory client produces, on every path — even where the upstream
// query was already tenant-parameterized. Rejected records behave as if they
// did not exist.
type scopeFilter struct {
	scope   domain.TenantScope
	logger  *slog.Logger
	metrics domain.BridgeMetrics
}

// admit reports whether the record belongs to the configured tenant, logging
// and counting every rejection.
func (f scopeFilter) admit(ctx context.Context, record *domain.UserRecord) bool {
	if f.scope.Admits(record) {
		return true
	}
	if record == nil {
		return false
	}

	f.logger.WarnContext(ctx, "record rejected by tenant scope filter",
		"record_tenant", record.TenantTag,
		"configured_scope", f.scope.String(),
		"external_id", record.ExternalID)
	if f.metrics != nil {
		f.metrics.RecordTenantRejected()
	}
	return false
}
