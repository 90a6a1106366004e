package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"fedbridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCredentials_Success(t *testing.T) {
	directory := &fakeDirectory{record: record("ext-1", "alice", "T1")}
	issuer := &fakeIssuer{token: "host-jwt"}

	uc := NewVerifyCredentials(directory, domain.TenantScope("T1"), issuer, slog.Default(), &fakeMetrics{})
	result, err := uc.Execute(context.Background(), "alice", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username())
	assert.Equal(t, "host-jwt", result.HostToken)
	assert.Equal(t, "alice", directory.lastUsername)
	assert.Equal(t, "hunter2", directory.lastPassword)
}

func TestVerifyCredentials_NoIssuerConfigured(t *testing.T) {
	directory := &fakeDirectory{record: record("ext-1", "alice", "T1")}

	uc := NewVerifyCredentials(directory, domain.TenantScope("T1"), nil, slog.Default(), &fakeMetrics{})
	result, err := uc.Execute(context.Background(), "alice", "hunter2")

	require.NoError(t, err)
	assert.Empty(t, result.HostToken)
}

func TestVerifyCredentials_WrongTenantEqualsWrongPassword(t *testing.T) {
	// Right password on an out-of-tenant account.
	wrongTenant := &fakeDirectory{record: record("ext-1", "alice", "T1")}
	ucWrongTenant := NewVerifyCredentials(wrongTenant, domain.TenantScope("T2"), nil, slog.Default(), &fakeMetrics{})
	_, errTenant := ucWrongTenant.Execute(context.Background(), "alice", "hunter2")

	// Wrong password on an in-tenant account.
	wrongPassword := &fakeDirectory{err: domain.ErrInvalidCredentials}
	ucWrongPassword := NewVerifyCredentials(wrongPassword, domain.TenantScope("T2"), nil, slog.Default(), &fakeMetrics{})
	_, errPassword := ucWrongPassword.Execute(context.Background(), "alice", "wrong")

	// Indistinguishable by design: distinguishing them would let a caller
	// probe which tenants an account exists under.
	require.Error(t, errTenant)
	require.Error(t, errPassword)
	assert.True(t, errors.Is(errTenant, domain.ErrInvalidCredentials))
	assert.True(t, errors.Is(errPassword, domain.ErrInvalidCredentials))
	assert.Equal(t, errPassword.Error(), errTenant.Error())
}

func TestVerifyCredentials_NotFoundBecomesInvalidCredentials(t *testing.T) {
	directory := &fakeDirectory{err: domain.ErrNotFound}

	uc := NewVerifyCredentials(directory, domain.TenantScope("T1"), nil, slog.Default(), &fakeMetrics{})
	result, err := uc.Execute(context.Background(), "ghost", "hunter2")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestVerifyCredentials_IssuerFailure(t *testing.T) {
	directory := &fakeDirectory{record: record("ext-1", "alice", "T1")}
	issuer := &fakeIssuer{err: errors.New("signing error")}

	uc := NewVerifyCredentials(directory, domain.TenantScope("T1"), issuer, slog.Default(), &fakeMetrics{})
	result, err := uc.Execute(context.Background(), "alice", "hunter2")

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestVerifyCredentials_InterruptedPassesThrough(t *testing.T) {
	directory := &fakeDirectory{err: domain.ErrInterrupted}

	uc := NewVerifyCredentials(directory, domain.TenantScope("T1"), nil, slog.Default(), &fakeMetrics{})
	result, err := uc.Execute(context.Background(), "alice", "hunter2")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrInterrupted))
}
