package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	pkgredis "github.com/haritkart/storefront/pkg/redis"
)

type profileCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	ProfileKey(sessionHash string) string
}

// Store caches resolved profiles keyed by a hash of the browser's session
// cookie. It is a soft cache: the upstream session cookie stays the source
// of truth and entries expire on their own.
type Store struct {
	cache profileCache
	ttl   time.Duration
}

func NewStore(cache profileCache, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

// Key derives the cache key from the raw Cookie header. The cookie value
// itself never touches redis.
func Key(rawCookie string) string {
	sum := sha256.Sum256([]byte(rawCookie))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached profile for the session, or nil on a miss. Cache
// trouble is reported as a miss with the error for the caller to log.
func (s *Store) Get(ctx context.Context, rawCookie string) (*Profile, error) {
	if s == nil || s.cache == nil || rawCookie == "" {
		return nil, nil
	}
	raw, err := s.cache.Get(ctx, s.cache.ProfileKey(Key(rawCookie)))
	if errors.Is(err, pkgredis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Put stores the profile under the session hash.
func (s *Store) Put(ctx context.Context, rawCookie string, profile *Profile) error {
	if s == nil || s.cache == nil || rawCookie == "" || profile == nil {
		return nil
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cache.ProfileKey(Key(rawCookie)), string(payload), s.ttl)
}

// Clear drops the cached profile, used on logout and on any profile change.
func (s *Store) Clear(ctx context.Context, rawCookie string) error {
	if s == nil || s.cache == nil || rawCookie == "" {
		return nil
	}
	return s.cache.Del(ctx, s.cache.ProfileKey(Key(rawCookie)))
}
