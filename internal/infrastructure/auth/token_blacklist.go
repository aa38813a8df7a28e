package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRevocationPrefix = "storefront:revoked:user:"

// RevocationList rejects access tokens issued before a user's access was
// last changed. Entries only need to outlive the longest token lifetime.
type RevocationList interface {
	// RevokeUserTokens marks every token issued up to now for userID as invalid
	RevokeUserTokens(ctx context.Context, userID uuid.UUID, ttl time.Duration) error

	// IsRevoked reports whether a token issued at issuedAt has been revoked
	IsRevoked(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error)
}

// RedisRevocationList stores one revocation timestamp per user in Redis
type RedisRevocationList struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client *redis.Client, keyPrefix string) *RedisRevocationList {
	if keyPrefix == "" {
		keyPrefix = defaultRevocationPrefix
	}
	return &RedisRevocationList{client: client, keyPrefix: keyPrefix, now: time.Now}
}

// RevokeUserTokens stores the current unix time for the user
func (l *RedisRevocationList) RevokeUserTokens(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.keyPrefix+userID.String(), l.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsRevoked compares the token's issue time with the stored timestamp
func (l *RedisRevocationList) IsRevoked(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error) {
	raw, err := l.client.Get(ctx, l.keyPrefix+userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	// JWT iat has second precision, so a token minted in the revoking second is rejected too
	return issuedAt.Unix() <= revokedAt, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList is a single-instance RevocationList for development
// and tests
type InMemoryRevocationList struct {
	mu        sync.RWMutex
	revokedAt map[uuid.UUID]time.Time
	now       func() time.Time
}

// NewInMemoryRevocationList creates an empty list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{revokedAt: make(map[uuid.UUID]time.Time), now: time.Now}
}

// RevokeUserTokens records the revocation time; ttl is ignored
func (l *InMemoryRevocationList) RevokeUserTokens(_ context.Context, userID uuid.UUID, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revokedAt[userID] = l.now()
	return nil
}

// IsRevoked reports whether issuedAt is at or before the revocation time
func (l *InMemoryRevocationList) IsRevoked(_ context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	revokedAt, ok := l.revokedAt[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.Unix() <= revokedAt.Unix(), nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)
