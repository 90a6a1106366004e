package federation

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"fedbridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMetrics implements domain.BridgeMetrics for testing.
type countingMetrics struct {
	mu               sync.Mutex
	mutationRejected int
}

func (m *countingMetrics) RecordTokenFetch()                  {}
func (m *countingMetrics) RecordAuthRetry()                   {}
func (m *countingMetrics) RecordTenantRejected()              {}
func (m *countingMetrics) RecordRemoteStatus(int)             {}
func (m *countingMetrics) RecordRemoteLatencySeconds(float64) {}

func (m *countingMetrics) RecordMutationRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationRejected++
}

func testRecord() *domain.UserRecord {
	return &domain.UserRecord{
		ExternalID: "ext-1",
		Username:   "alice",
		Email:      "alice@example.com",
		FirstName:  "Alice",
		LastName:   "Arnold",
		TenantTag:  "t1",
		Validated:  true,
	}
}

func TestNewReadOnlyUser_MissingExternalIDFailsFast(t *testing.T) {
	record := testRecord()
	record.ExternalID = ""

	user, err := NewReadOnlyUser(record, slog.Default(), nil)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domain.ErrMissingExternalID))

	user, err = NewReadOnlyUser(nil, slog.Default(), nil)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domain.ErrMissingExternalID))
}

func TestReadOnlyUser_FederationIDStableAndNamespaced(t *testing.T) {
	first, err := NewReadOnlyUser(testRecord(), slog.Default(), nil)
	require.NoError(t, err)

	// Same external id under a different username yields the same federation
	// id: usernames are mutable upstream, the id must not move with them.
	renamed := testRecord()
	renamed.Username = "alice-renamed"
	renamed.Email = "new@example.com"
	second, err := NewReadOnlyUser(renamed, slog.Default(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.FederationID(), "f:"))
	assert.Equal(t, first.FederationID(), second.FederationID())

	other := testRecord()
	other.ExternalID = "ext-2"
	third, err := NewReadOnlyUser(other, slog.Default(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.FederationID(), third.FederationID())
}

func TestReadOnlyUser_ReadAccessors(t *testing.T) {
	user, err := NewReadOnlyUser(testRecord(), slog.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, "ext-1", user.ExternalID())
	assert.Equal(t, "alice", user.Username())
	assert.Equal(t, "alice@example.com", user.Email())
	assert.Equal(t, "Alice", user.FirstName())
	assert.Equal(t, "Arnold", user.LastName())
	assert.Equal(t, "t1", user.TenantTag())
	assert.True(t, user.Validated())
}

func TestReadOnlyUser_MutationsAreDiscarded(t *testing.T) {
	metrics := &countingMetrics{}
	user, err := NewReadOnlyUser(testRecord(), slog.Default(), metrics)
	require.NoError(t, err)

	user.SetUsername("mallory")
	user.SetEmail("mallory@example.com")
	user.SetFirstName("Mallory")
	user.SetLastName("Moriarty")
	user.SetValidated(false)
	user.SetAttribute("shoe_size", "44")
	user.SetCredentials("new-password")

	// A read after any write returns pre-mutation data.
	assert.Equal(t, "alice", user.Username())
	assert.Equal(t, "alice@example.com", user.Email())
	assert.Equal(t, "Alice", user.FirstName())
	assert.Equal(t, "Arnold", user.LastName())
	assert.True(t, user.Validated())

	// Each rejected write is observable for operability.
	assert.Equal(t, 7, metrics.mutationRejected)
}

var _ domain.FederatedUser = (*ReadOnlyUser)(nil)
