package token

import (
	"sync"
	"time"
)

// RevokedTokenCache tracks revoked access tokens by jti until they would have
// expired anyway.
type RevokedTokenCache interface {
	Add(jti string, expiresAt time.Time) error
	IsRevoked(jti string) bool
	Cleanup()
}

type InMemoryRevokedTokenCache struct {
	revoked map[string]time.Time
	nowFunc func() time.Time
	lock    sync.RWMutex
}

var _ RevokedTokenCache = (*InMemoryRevokedTokenCache)(nil)

func NewInMemoryRevokedTokenCache() *InMemoryRevokedTokenCache {
	return &InMemoryRevokedTokenCache{
		revoked: make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

func (c *InMemoryRevokedTokenCache) Add(jti string, expiresAt time.Time) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.revoked[jti] = expiresAt
	return nil
}

func (c *InMemoryRevokedTokenCache) IsRevoked(jti string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	_, ok := c.revoked[jti]
	return ok
}

// Cleanup removes entries whose tokens have expired on their own.
func (c *InMemoryRevokedTokenCache) Cleanup() {
	c.lock.Lock()
	defer c.lock.Unlock()
	now := c.nowFunc()
	for jti, expiresAt := range c.revoked {
		if expiresAt.Before(now) {
			delete(c.revoked, jti)
		}
	}
}
