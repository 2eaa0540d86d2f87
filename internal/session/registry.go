// internal/session/registry.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Registry tracks live session ids. A token whose id is not registered is
// rejected even when its signature is valid.
type Registry interface {
	Register(ctx context.Context, id string, ttl time.Duration) error
	Active(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}

// RedisRegistry keeps one key per session with the session TTL.
type RedisRegistry struct {
	client *redis.Client
	prefix string
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client, prefix: "clubnexus:session:"}
}

func (r *RedisRegistry) Register(ctx context.Context, id string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+id, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Active(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n == 1, nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{expires: map[string]time.Time{}, now: time.Now}
}

func (r *MemoryRegistry) Register(ctx context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires[id] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRegistry) Active(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.expires[id]
	if !ok {
		return false, nil
	}
	if !r.now().Before(exp) {
		delete(r.expires, id)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRegistry) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.expires, id)
	return nil
}
