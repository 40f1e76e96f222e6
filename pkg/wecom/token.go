package wecom

import (
	"sync"
	"time"
)

// TokenSafetyWindow is how long before expiry a cached token stops being
// handed out.
const TokenSafetyWindow = 60 * time.Second

// TokenCache holds access tokens keyed by "corpID:secret". It is safe for
// concurrent use and is passed to clients explicitly.
type TokenCache struct {
	mu      sync.Mutex
	entries map[string]cachedToken
	now     func() time.Time
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// NewTokenCache returns an empty cache using the wall clock.
func NewTokenCache() *TokenCache {
	return &TokenCache{
		entries: make(map[string]cachedToken),
		now:     time.Now,
	}
}

// Get returns the cached token for key unless it expires within
// TokenSafetyWindow.
func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !c.now().Before(entry.expiresAt.Add(-TokenSafetyWindow)) {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

// Put stores token for key, valid for ttl from now.
func (c *TokenCache) Put(key, token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedToken{value: token, expiresAt: c.now().Add(ttl)}
}

// Invalidate drops the token cached for key.
func (c *TokenCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func tokenKey(corpID, secret string) string {
	return corpID + ":" + secret
}
