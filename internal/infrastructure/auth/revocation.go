package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates tokens before they expire.
// Single tokens are revoked by jti on logout; all of a user's tokens are
// revoked when the account is disabled or its password changes.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// CheckRevoked returns ErrTokenRevoked when either the token or its user has been revoked
func CheckRevoked(ctx context.Context, store RevocationStore, claims *Claims) error {
	if store == nil {
		return nil
	}
	revoked, err := store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	revoked, err = store.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

const revocationKeyPrefix = "auth:revoked:"

// RedisRevocationStore keeps revocations in Redis so every instance sees them
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRedisRevocationStore wraps an existing Redis client
func NewRedisRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) jtiKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func (s *RedisRevocationStore) userKey(userID string) string {
	return revocationKeyPrefix + "user:" + userID
}

// Revoke stores the jti until the token would have expired anyway
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks a single jti
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUser records the cutoff; tokens issued at or before it are rejected
func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked compares issuedAt against the user's cutoff
func (s *RedisRevocationStore) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := s.client.Get(ctx, s.userKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation cutoff: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// MemoryRevocationStore is the single-instance fallback used when Redis is disabled
type MemoryRevocationStore struct {
	mu      sync.Mutex
	tokens  map[string]time.Time // jti -> expiry
	cutoffs map[string]time.Time // userID -> cutoff
}

// NewMemoryRevocationStore creates an empty store
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokens:  make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(s.tokens, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser truncates the cutoff to seconds to match JWT iat precision
func (s *MemoryRevocationStore) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs[userID] = time.Now().Truncate(time.Second)
	return nil
}

func (s *MemoryRevocationStore) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff, ok := s.cutoffs[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)
