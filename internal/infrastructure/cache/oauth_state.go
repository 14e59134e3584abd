// Package cache holds short-lived state: OAuth nonces and the quote of the day.
// Redis backs it in deployments; the in-process variants serve single-node dev.
package cache

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const statePrefix = "oauth:state:"

func newNonce() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RedisStates stores OAuth state nonces with a TTL. Each nonce is accepted once.
type RedisStates struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStates(rdb redis.Cmdable, ttl time.Duration) *RedisStates {
	return &RedisStates{rdb: rdb, ttl: ttl}
}

func (s *RedisStates) Issue(ctx context.Context) (string, error) {
	nonce, err := newNonce()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, statePrefix+nonce, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return nonce, nil
}

func (s *RedisStates) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	n, err := s.rdb.Del(ctx, statePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MemoryStates is the in-process fallback used when Redis is not configured.
type MemoryStates struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]time.Time
}

func NewMemoryStates(ttl time.Duration) *MemoryStates {
	return &MemoryStates{ttl: ttl, now: time.Now, pending: make(map[string]time.Time)}
}

func (s *MemoryStates) Issue(context.Context) (string, error) {
	nonce, err := newNonce()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.pending {
		if now.After(exp) {
			delete(s.pending, k)
		}
	}
	s.pending[nonce] = now.Add(s.ttl)
	return nonce, nil
}

func (s *MemoryStates) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.pending[state]
	if !ok {
		return false, nil
	}
	delete(s.pending, state)
	return !s.now().After(exp), nil
}
