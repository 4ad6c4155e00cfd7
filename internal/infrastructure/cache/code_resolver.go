package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stocker/backend/internal/domain/directory"
	"go.uber.org/zap"
)

// defaultCodeTTL bounds how long a resolved tenant code may be served
// without consulting the directory again.
const defaultCodeTTL = 5 * time.Minute

const codeKeyPrefix = "tenant:code:"

// RedisCodeResolver resolves tenant IDs to tenant codes through the
// directory repository, caching results in Redis. Unknown IDs are not
// cached; every miss is re-checked against the directory.
type RedisCodeResolver struct {
	client *redis.Client
	repo   directory.TenantRepository
	ttl    time.Duration
	logger *zap.Logger
}

// RedisCodeResolverOption is a functional option for configuring the resolver
type RedisCodeResolverOption func(*RedisCodeResolver)

// WithCodeTTL sets how long resolved codes stay cached
func WithCodeTTL(ttl time.Duration) RedisCodeResolverOption {
	return func(r *RedisCodeResolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithResolverLogger sets the logger for the resolver
func WithResolverLogger(logger *zap.Logger) RedisCodeResolverOption {
	return func(r *RedisCodeResolver) {
		r.logger = logger
	}
}

// NewRedisCodeResolver creates a resolver backed by an existing Redis client.
// The caller retains ownership of the client.
func NewRedisCodeResolver(client *redis.Client, repo directory.TenantRepository, opts ...RedisCodeResolverOption) *RedisCodeResolver {
	resolver := &RedisCodeResolver{
		client: client,
		repo:   repo,
		ttl:    defaultCodeTTL,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// ResolveCode returns the tenant code for the given ID, serving from
// cache when possible. Returns shared.ErrTenantNotFound for unknown IDs.
func (r *RedisCodeResolver) ResolveCode(ctx context.Context, tenantID uuid.UUID) (string, error) {
	key := codeKeyPrefix + tenantID.String()

	code, err := r.client.Get(ctx, key).Result()
	if err == nil && code != "" {
		return code, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		// Redis being down must not take tenant resolution with it.
		r.logger.Warn("code resolver cache read failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}

	tenant, err := r.repo.FindByID(ctx, tenantID)
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, key, tenant.Code, r.ttl).Err(); err != nil {
		r.logger.Warn("code resolver cache write failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}

	return tenant.Code, nil
}

// Invalidate drops the cached code for a tenant. Call after a tenant
// code changes or the tenant is terminated.
func (r *RedisCodeResolver) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, codeKeyPrefix+tenantID.String()).Err()
}

// InMemoryCodeResolver is a process-local CodeResolver for tests and
// single-instance deployments without Redis.
type InMemoryCodeResolver struct {
	repo directory.TenantRepository
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[uuid.UUID]codeEntry
}

type codeEntry struct {
	code      string
	expiresAt time.Time
}

// NewInMemoryCodeResolver creates an in-memory resolver over the directory
func NewInMemoryCodeResolver(repo directory.TenantRepository, ttl time.Duration) *InMemoryCodeResolver {
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}
	return &InMemoryCodeResolver{
		repo:    repo,
		ttl:     ttl,
		entries: make(map[uuid.UUID]codeEntry),
	}
}

// ResolveCode returns the tenant code for the given ID, serving from
// memory when the entry is still fresh.
func (r *InMemoryCodeResolver) ResolveCode(ctx context.Context, tenantID uuid.UUID) (string, error) {
	r.mu.RLock()
	entry, ok := r.entries[tenantID]
	r.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.code, nil
	}

	tenant, err := r.repo.FindByID(ctx, tenantID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.entries[tenantID] = codeEntry{
		code:      tenant.Code,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Unlock()

	return tenant.Code, nil
}

// Invalidate drops the cached code for a tenant
func (r *InMemoryCodeResolver) Invalidate(tenantID uuid.UUID) {
	r.mu.Lock()
	delete(r.entries, tenantID)
	r.mu.Unlock()
}

var _ directory.CodeResolver = (*RedisCodeResolver)(nil)
var _ directory.CodeResolver = (*InMemoryCodeResolver)(nil)
