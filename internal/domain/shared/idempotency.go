package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already processed, such as
// checkout idempotency keys and payment webhook event ids.
type IdempotencyStore interface {
	// Reserve claims key for ttl and associates value with it.
	// It returns false and the previously stored value when the key was already claimed.
	Reserve(ctx context.Context, key, value string, ttl time.Duration) (bool, string, error)

	// Set overwrites the value stored for key, keeping it for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Release forgets key so that it can be claimed again.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed key is remembered
	TTL time.Duration
	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
