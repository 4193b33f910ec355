package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// JwtBlacklistStore keeps the ids of revoked tokens until they expire
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given JWT ID (jti) is blacklisted.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// AddToBlacklist adds the given JWT ID (jti) to the blacklist with an expiration time.
	AddToBlacklist(ctx context.Context, jti string, exp time.Time) error
}

// InMemoryBlacklistStore is a JwtBlacklistStore for a single server process
type InMemoryBlacklistStore struct {
	blacklist map[string]time.Time
	mu        sync.RWMutex
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewInMemoryBlacklistStore creates a store and starts its janitor
func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	return newInMemoryBlacklistStore(5 * time.Minute)
}

func newInMemoryBlacklistStore(interval time.Duration) *InMemoryBlacklistStore {
	store := &InMemoryBlacklistStore{
		blacklist: make(map[string]time.Time),
		stop:      make(chan struct{}),
	}
	go store.periodicallyCleanUp(interval)
	return store
}

func (s *InMemoryBlacklistStore) periodicallyCleanUp(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CleanUpExpired()
		case <-s.stop:
			return
		}
	}
}

// Close stops the janitor goroutine
func (s *InMemoryBlacklistStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// CleanUpExpired drops entries whose token already expired
func (s *InMemoryBlacklistStore) CleanUpExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for jti, exp := range s.blacklist {
		if exp.Before(now) {
			delete(s.blacklist, jti)
		}
	}
}

// IsBlacklisted implements JwtBlacklistStore
func (s *InMemoryBlacklistStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blacklist[jti]
	return exists, nil
}

// AddToBlacklist implements JwtBlacklistStore
func (s *InMemoryBlacklistStore) AddToBlacklist(_ context.Context, jti string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[jti] = exp
	return nil
}

const redisBlacklistPrefix = "empregol:jwt:blacklist:"

// RedisBlacklistStore shares revoked tokens between server instances
type RedisBlacklistStore struct {
	client *redis.Client
}

// NewRedisBlacklistStore wraps a redis client
func NewRedisBlacklistStore(client *redis.Client) *RedisBlacklistStore {
	return &RedisBlacklistStore{client: client}
}

// IsBlacklisted implements JwtBlacklistStore
func (s *RedisBlacklistStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, redisBlacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToBlacklist implements JwtBlacklistStore. The key expires together with the token.
func (s *RedisBlacklistStore) AddToBlacklist(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, redisBlacklistPrefix+jti, exp.Unix(), ttl).Err()
}

// NewBlacklistStore returns a Redis backed store when client is set, the
// in-memory store otherwise.
func NewBlacklistStore(client *redis.Client) JwtBlacklistStore {
	if client == nil {
		return NewInMemoryBlacklistStore()
	}
	return NewRedisBlacklistStore(client)
}
