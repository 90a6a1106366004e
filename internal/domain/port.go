package domain

import "context"

// TokenSource produces and invalidates the privileged bearer token used for
// every call against the external account API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Directory issues raw federation queries against the external account API.
// Records it returns are unscoped; tenant filtering happens downstream.
type Directory interface {
	LookupByUsername(ctx context.Context, username string) (*UserRecord, error)
	LookupByID(ctx context.Context, externalID string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]*UserRecord, error)
	VerifyCredentials(ctx context.Context, username, password string) (*UserRecord, error)
}

// FederatedUser is the narrow view of a federated account the host platform
// consumes: read accessors plus a write surface that accepts and discards.
type FederatedUser interface {
	FederationID() string
	ExternalID() string
	Username() string
	Email() string
	FirstName() string
	LastName() string
	TenantTag() string
	Validated() bool

	SetUsername(string)
	SetEmail(string)
	SetFirstName(string)
	SetLastName(string)
	SetValidated(bool)
	SetAttribute(name, value string)
	SetCredentials(secret string)
}

// HostTokenIssuer mints short-lived tokens the host platform can present to
// its own backends after a successful credential verification.
type HostTokenIssuer interface {
	IssueHostToken(user FederatedUser) (string, error)
}

// BridgeMetrics records the bridge's operability signals. Implementations
// must be safe for concurrent use.
type BridgeMetrics interface {
	RecordTokenFetch()
	RecordAuthRetry()
	RecordTenantRejected()
	RecordMutationRejected()
	RecordRemoteStatus(code int)
	RecordRemoteLatencySeconds(seconds float64)
}
