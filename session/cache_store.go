package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/umakantv/go-utils/cache"
)

// Key prefix namespacing session documents in the shared cache.
const sessionKeyPrefix = "session:"

// CacheStore keeps session documents in the go-utils cache (redis or
// memory). The document's own expires_at is authoritative on read; the
// cache TTL bounds storage. Cache writes are synchronous, so the
// durable-write guarantee holds here as well.
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheStore creates a cache-backed session store.
func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *CacheStore) load(sessionID string) (*document, error) {
	cached, err := s.cache.Get(s.key(sessionID))
	if err != nil {
		return nil, ErrNoSession
	}

	var raw []byte
	switch v := cached.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil, ErrNoSession
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrNoSession
	}
	if time.Now().After(doc.ExpiresAt) {
		return nil, ErrNoSession
	}
	return &doc, nil
}

func (s *CacheStore) write(sessionID string, doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.cache.Set(s.key(sessionID), data, s.ttl)
}

// Get implements Store.
func (s *CacheStore) Get(ctx context.Context, sessionID string) (*Member, error) {
	doc, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	return doc.Member, nil
}

// SetMember implements Store.
func (s *CacheStore) SetMember(ctx context.Context, sessionID string, member Member) error {
	return s.write(sessionID, document{
		Member:    &member,
		ExpiresAt: time.Now().Add(s.ttl),
	})
}

// ClearMember implements Store.
func (s *CacheStore) ClearMember(ctx context.Context, sessionID string) error {
	doc, err := s.load(sessionID)
	if err != nil {
		return err
	}
	doc.Member = nil
	doc.ExpiresAt = time.Now().Add(s.ttl)
	return s.write(sessionID, *doc)
}

// Destroy implements Store.
func (s *CacheStore) Destroy(ctx context.Context, sessionID string) error {
	return s.cache.Delete(s.key(sessionID))
}
