package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stocker/backend/internal/infrastructure/config"
)

// TokenRevocations invalidates JWT tokens before their natural expiry,
// either one token at a time (logout) or for a whole user (forced logout
// of every session).
type TokenRevocations interface {
	// Revoke marks a token's JTI as revoked until its natural expiry
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a JTI has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeAllForUser invalidates every token issued to the user up to now
	RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevokedSince reports whether tokens issued at the given time
	// fall under a user-wide revocation
	IsUserRevokedSince(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "stocker:auth:revoked:"

// RedisTokenRevocations implements TokenRevocations using Redis so
// revocations are visible to every server instance.
type RedisTokenRevocations struct {
	client *redis.Client
}

// NewRedisTokenRevocations connects to Redis using the application config
func NewRedisTokenRevocations(cfg config.RedisConfig) (*RedisTokenRevocations, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for token revocations: %w", err)
	}

	return &RedisTokenRevocations{client: client}, nil
}

// NewRedisTokenRevocationsWithClient wraps an existing Redis client.
// The caller retains ownership of the client.
func NewRedisTokenRevocationsWithClient(client *redis.Client) *RedisTokenRevocations {
	return &RedisTokenRevocations{client: client}
}

func jtiKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func userKey(userID string) string {
	return revocationKeyPrefix + "user:" + userID
}

// Revoke marks a token's JTI as revoked
func (r *RedisTokenRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a JTI has been revoked
func (r *RedisTokenRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeAllForUser stores the current timestamp as the user's revocation
// cutoff; tokens issued at or before it are rejected.
func (r *RedisTokenRevocations) RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error {
	cutoff := time.Now().Unix()
	if err := r.client.Set(ctx, userKey(userID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevokedSince reports whether tokens issued at the given time fall
// under a user-wide revocation
func (r *RedisTokenRevocations) IsUserRevokedSince(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	value, err := r.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}

	cutoff, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation cutoff: %w", err)
	}

	return issuedAt.Unix() <= cutoff, nil
}

// Close closes the Redis client
func (r *RedisTokenRevocations) Close() error {
	return r.client.Close()
}

var _ TokenRevocations = (*RedisTokenRevocations)(nil)

// InMemoryTokenRevocations is a process-local implementation for tests
// and single-instance deployments.
type InMemoryTokenRevocations struct {
	mu          sync.RWMutex
	revokedJTIs map[string]time.Time // JTI -> entry expiry
	userCutoffs map[string]time.Time // userID -> revocation cutoff
}

// NewInMemoryTokenRevocations creates an in-memory revocation store
func NewInMemoryTokenRevocations() *InMemoryTokenRevocations {
	return &InMemoryTokenRevocations{
		revokedJTIs: make(map[string]time.Time),
		userCutoffs: make(map[string]time.Time),
	}
}

// Revoke marks a token's JTI as revoked
func (r *InMemoryTokenRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revokedJTIs[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether a JTI has been revoked and the entry has not lapsed
func (r *InMemoryTokenRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry, exists := r.revokedJTIs[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(r.revokedJTIs, jti)
		return false, nil
	}
	return true, nil
}

// RevokeAllForUser invalidates every token issued to the user up to now
func (r *InMemoryTokenRevocations) RevokeAllForUser(_ context.Context, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userCutoffs[userID] = time.Now()
	return nil
}

// IsUserRevokedSince reports whether tokens issued at the given time fall
// under a user-wide revocation
func (r *InMemoryTokenRevocations) IsUserRevokedSince(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff, exists := r.userCutoffs[userID]
	if !exists {
		return false, nil
	}
	return issuedAt.UnixNano() <= cutoff.UnixNano(), nil
}

var _ TokenRevocations = (*InMemoryTokenRevocations)(nil)
