package federation

import (
	"log/slog"

	"fedbridge/internal/domain"

	"github.com/google/uuid"
)

// federationNamespace is the fixed UUID namespace for deriving federation
// ids. Changing it would regenerate every federation id, which breaks the
// host platform's links to external accounts; it must stay constant.
var federationNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ReadOnlyUser presents a canonical user record to the host platform while
// the external account system remains the sole source of truth. Reads serve
// the captured record; writes are accepted, logged and discarded so the host
// platform's generic update flows do not break. Implements
// domain.FederatedUser.
//
// A ReadOnlyUser lives for one federation request: constructed from a fresh
// remote response, exposed read-only, then discarded.
type ReadOnlyUser struct {
	record  domain.UserRecord
	fid     string
	logger  *slog.Logger
	metrics domain.BridgeMetrics
}

// NewReadOnlyUser wraps a canonical record. The external id is the federation
// primary key; wrapping a record without one fails immediately rather than
// deferring the integrity error to first use.
func NewReadOnlyUser(record *domain.UserRecord, logger *slog.Logger, metrics domain.BridgeMetrics) (*ReadOnlyUser, error) {
	if record == nil || record.ExternalID == "" {
		return nil, domain.ErrMissingExternalID
	}

	// Derived from the external id alone: usernames and emails are mutable
	// upstream, the external id is not.
	fid := "f:" + uuid.NewSHA1(federationNamespace, []byte(record.ExternalID)).String()

	return &ReadOnlyUser{
		record:  *record,
		fid:     fid,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// FederationID returns the stable, namespaced identifier the host platform
// keys this account by. It never changes for the lifetime of the external
// account.
func (u *ReadOnlyUser) FederationID() string { return u.fid }

func (u *ReadOnlyUser) ExternalID() string { return u.record.ExternalID }
func (u *ReadOnlyUser) Username() string   { return u.record.Username }
func (u *ReadOnlyUser) Email() string      { return u.record.Email }
func (u *ReadOnlyUser) FirstName() string  { return u.record.FirstName }
func (u *ReadOnlyUser) LastName() string   { return u.record.LastName }
func (u *ReadOnlyUser) TenantTag() string  { return u.record.TenantTag }
func (u *ReadOnlyUser) Validated() bool    { return u.record.Validated }

func (u *ReadOnlyUser) SetUsername(string)  { u.rejectMutation("username") }
func (u *ReadOnlyUser) SetEmail(string)     { u.rejectMutation("email") }
func (u *ReadOnlyUser) SetFirstName(string) { u.rejectMutation("firstname") }
func (u *ReadOnlyUser) SetLastName(string)  { u.rejectMutation("lastname") }
func (u *ReadOnlyUser) SetValidated(bool)   { u.rejectMutation("validated") }

// SetAttribute discards arbitrary attribute writes from the host platform's
// generic forms.
func (u *ReadOnlyUser) SetAttribute(name, _ string) { u.rejectMutation("attribute " + name) }

// SetCredentials discards credential updates; passwords live only in the
// external account system.
func (u *ReadOnlyUser) SetCredentials(string) { u.rejectMutation("credentials") }

func (u *ReadOnlyUser) rejectMutation(field string) {
	u.logger.Warn("mutation rejected: user is read-only federated",
		"field", field,
		"federation_id", u.fid)
	if u.metrics != nil {
		u.metrics.RecordMutationRejected()
	}
}
