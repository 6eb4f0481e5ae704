package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles refresh token creation, validation, and rotation.
type Manager struct {
	repo        Repo
	tokenLength int
	expiry      time.Duration
}

// NewManager creates a new refresh token manager.
func NewManager(repo Repo, tokenLength int, expiry time.Duration) *Manager {
	if tokenLength <= 0 {
		tokenLength = 32 // 32 bytes = 256 bits
	}
	return &Manager{
		repo:        repo,
		tokenLength: tokenLength,
		expiry:      expiry,
	}
}

// Create generates a new refresh token and stores it. A user holds at most
// one refresh token, so any existing token is deleted first.
func (m *Manager) Create(userID int64) (string, error) {
	if existingToken, err := m.repo.GetByUserID(userID); err == nil && existingToken != nil {
		if err := m.repo.Delete(existingToken.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Consume validates a presented refresh token and deletes it, returning the
// owning user ID. The caller is expected to issue a replacement (rotation).
func (m *Manager) Consume(token string) (int64, error) {
	stored, err := m.repo.Get(token)
	if err != nil || stored == nil {
		return 0, interrors.ErrInvalidRefreshToken
	}

	if NowTimeFunc().Sub(stored.Iat) > m.expiry {
		_ = m.repo.Delete(token)
		return 0, interrors.ErrRefreshTokenExpired
	}

	if err := m.repo.Delete(token); err != nil {
		return 0, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return stored.UserID, nil
}

// Invalidate removes a refresh token from storage. Unknown tokens are a no-op.
func (m *Manager) Invalidate(token string) {
	_ = m.repo.Delete(token)
}

// Expiry returns the configured refresh token lifetime.
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}
