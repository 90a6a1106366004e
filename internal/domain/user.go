package domain

// UserRecord is the canonical, tenant-scoped view of an account owned by the
// external account system. It is built fresh from a remote response on every
// lookup and never persisted locally.
type UserRecord struct {
	ExternalID string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	TenantTag  string
	Validated  bool
}

// TenantScope is the single tenant this bridge is allowed to surface.
// It is fixed at startup and compared against every record returned by the
// external system, regardless of which lookup path produced it.
type TenantScope string

// Admits reports whether the record belongs to the configured tenant.
// Upstream tenant-parameterized queries are not trusted to have filtered
// correctly; this check runs on every retrieval path.
func (s TenantScope) Admits(record *UserRecord) bool {
	if record == nil {
		return false
	}
	return record.TenantTag == string(s)
}

func (s TenantScope) String() string {
	return string(s)
}
