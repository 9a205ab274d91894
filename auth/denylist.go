package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token ids until they would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryDenylist keeps revocations in process memory.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, exp := range d.revoked {
		if !exp.After(now) {
			delete(d.revoked, id)
		}
	}
	if until.After(now) {
		d.revoked[tokenID] = until
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(time.Now()) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// RedisDenylist shares revocations between instances. Keys expire with the token.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(addr, password string, db int) *RedisDenylist {
	return &RedisDenylist{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (d *RedisDenylist) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *RedisDenylist) Close() error {
	return d.client.Close()
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
