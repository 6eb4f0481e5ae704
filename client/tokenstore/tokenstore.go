// Package tokenstore persists the access/refresh credential pair between
// process runs. It is the only durable client-side state.
package tokenstore

// Credentials is the access/refresh token pair issued at login. The two
// tokens are always written and cleared together.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store holds the credential pair. Implementations must keep the two-token
// invariant: Get never reports a half-present pair. Clear is idempotent.
type Store interface {
	Set(creds Credentials) error
	// Get returns the stored pair and whether a restorable session exists.
	// A pair without an access token is absent; a half-present pair is
	// cleared and reported absent.
	Get() (Credentials, bool, error)
	Clear() error
}
