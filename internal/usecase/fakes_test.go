package usecase

import (
	"context"
	"sync"

	"fedbridge/internal/domain"
)

// fakeDirectory implements domain.Directory for testing.
type fakeDirectory struct {
	record  *domain.UserRecord
	records []*domain.UserRecord
	err     error

	lastUsername string
	lastPassword string
	calls        int
}

func (f *fakeDirectory) LookupByUsername(_ context.Context, username string) (*domain.UserRecord, error) {
	f.calls++
	f.lastUsername = username
	return f.record, f.err
}

func (f *fakeDirectory) LookupByID(_ context.Context, externalID string) (*domain.UserRecord, error) {
	f.calls++
	return f.record, f.err
}

func (f *fakeDirectory) ListUsers(_ context.Context) ([]*domain.UserRecord, error) {
	f.calls++
	return f.records, f.err
}

func (f *fakeDirectory) VerifyCredentials(_ context.Context, username, password string) (*domain.UserRecord, error) {
	f.calls++
	f.lastUsername = username
	f.lastPassword = password
	return f.record, f.err
}

// fakeMetrics implements domain.BridgeMetrics for testing.
type fakeMetrics struct {
	mu               sync.Mutex
	tenantRejected   int
	mutationRejected int
}

func (m *fakeMetrics) RecordTokenFetch()                  {}
func (m *fakeMetrics) RecordAuthRetry()                   {}
func (m *fakeMetrics) RecordRemoteStatus(int)             {}
func (m *fakeMetrics) RecordRemoteLatencySeconds(float64) {}

func (m *fakeMetrics) RecordTenantRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantRejected++
}

func (m *fakeMetrics) RecordMutationRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationRejected++
}

// fakeIssuer implements domain.HostTokenIssuer for testing.
type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) IssueHostToken(_ domain.FederatedUser) (string, error) {
	return f.token, f.err
}

func record(externalID, username, tenant string) *domain.UserRecord {
	return &domain.UserRecord{
		ExternalID: externalID,
		Username:   username,
		Email:      username + "@example.com",
		TenantTag:  tenant,
		Validated:  true,
	}
}
