// Package session owns the authenticated-user lifecycle on the client side:
// restoring a persisted session at startup, logging in and out, and exposing
// a consistent snapshot for authorization decisions. There is no ambient
// singleton; callers construct a Manager and pass it to whoever needs it.
package session

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-hms/client/rest"
	"github.com/jrsteele09/go-hms/client/tokenstore"
	"github.com/jrsteele09/go-hms/users"
	"github.com/pkg/errors"
)

// Status is the session lifecycle phase.
type Status string

const (
	// StatusRestoring holds from construction until Restore completes.
	StatusRestoring     Status = "restoring"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// GenericLoginFailureMessage is reported when a login rejection carried no
// usable server detail.
const GenericLoginFailureMessage = "login failed"

// Session is an immutable snapshot of the lifecycle state. Identity is
// non-nil exactly when Status is StatusAuthenticated.
type Session struct {
	Status   Status
	Identity *users.Identity
}

type Manager struct {
	client *rest.Client
	tokens tokenstore.Store

	lock     sync.RWMutex
	status   Status
	identity *users.Identity
	restored bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string         `json:"access"`
	Refresh string         `json:"refresh"`
	User    users.Identity `json:"user"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func NewManager(client *rest.Client, tokens tokenstore.Store) *Manager {
	return &Manager{
		client: client,
		tokens: tokens,
		status: StatusRestoring,
	}
}

// Session returns a point-in-time snapshot. The Identity pointer is a copy;
// mutating it does not affect the manager.
func (m *Manager) Session() Session {
	m.lock.RLock()
	defer m.lock.RUnlock()

	snapshot := Session{Status: m.status}
	if m.identity != nil {
		identity := *m.identity
		snapshot.Identity = &identity
	}
	return snapshot
}

// Restore resolves the initial restoring state exactly once. With no stored
// credentials it settles to anonymous without any network traffic. With
// credentials it probes the profile endpoint; if that fails it makes one
// refresh-exchange attempt before giving up, clearing the stale pair.
// Subsequent calls return the already-settled snapshot.
func (m *Manager) Restore(ctx context.Context) Session {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.restored {
		return m.snapshotLocked()
	}
	m.restored = true

	creds, ok, err := m.tokens.Get()
	if err != nil || !ok {
		m.status = StatusAnonymous
		m.identity = nil
		return m.snapshotLocked()
	}

	identity, err := m.fetchProfile(ctx)
	if err != nil {
		identity, err = m.exchangeRefresh(ctx, creds.RefreshToken)
	}
	if err != nil {
		_ = m.tokens.Clear()
		m.status = StatusAnonymous
		m.identity = nil
		return m.snapshotLocked()
	}

	m.status = StatusAuthenticated
	m.identity = identity
	return m.snapshotLocked()
}

// Login exchanges credentials for a token pair and an identity. On failure
// the session state and token store are left untouched and the server's
// error detail is returned; a rejection with no detail at all gets a
// login-specific generic message instead of the client's request-level one.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	var resp loginResponse
	err := m.client.Post(ctx, "/api/auth/login/", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && apiErr.Detail == "" && len(apiErr.Fields) == 0 {
			apiErr.Detail = GenericLoginFailureMessage
		}
		return err
	}

	if err := m.tokens.Set(tokenstore.Credentials{AccessToken: resp.Access, RefreshToken: resp.Refresh}); err != nil {
		return errors.Wrap(err, "[Manager.Login] persist credentials")
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.restored = true
	m.status = StatusAuthenticated
	m.identity = &resp.User
	return nil
}

// Logout revokes the server-side session on a best-effort basis, then
// discards local state. It is idempotent and never fails.
func (m *Manager) Logout(ctx context.Context) {
	if creds, ok, err := m.tokens.Get(); err == nil && ok {
		// Revocation failures do not block a local logout
		_ = m.client.Post(ctx, "/api/auth/logout/", refreshRequest{Refresh: creds.RefreshToken}, nil)
	}
	_ = m.tokens.Clear()

	m.lock.Lock()
	defer m.lock.Unlock()
	m.restored = true
	m.status = StatusAnonymous
	m.identity = nil
}

func (m *Manager) snapshotLocked() Session {
	snapshot := Session{Status: m.status}
	if m.identity != nil {
		identity := *m.identity
		snapshot.Identity = &identity
	}
	return snapshot
}

func (m *Manager) fetchProfile(ctx context.Context) (*users.Identity, error) {
	var identity users.Identity
	if err := m.client.Get(ctx, "/api/auth/profile/", &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// exchangeRefresh trades the refresh token for a fresh pair and re-probes
// the profile. The new pair must be stored before the probe so the request
// carries the fresh access token.
func (m *Manager) exchangeRefresh(ctx context.Context, refreshToken string) (*users.Identity, error) {
	if refreshToken == "" {
		return nil, errors.New("[Manager.exchangeRefresh] no refresh token")
	}

	var resp refreshResponse
	if err := m.client.Post(ctx, "/api/auth/refresh/", refreshRequest{Refresh: refreshToken}, &resp); err != nil {
		return nil, err
	}
	if err := m.tokens.Set(tokenstore.Credentials{AccessToken: resp.Access, RefreshToken: resp.Refresh}); err != nil {
		return nil, errors.Wrap(err, "[Manager.exchangeRefresh] persist credentials")
	}
	return m.fetchProfile(ctx)
}
