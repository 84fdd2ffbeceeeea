package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore tracks live refresh tokens. A token is live while its key
// exists; Redis expiry enforces the refresh TTL server-side and logout
// deletes the key immediately.
type TokenStore struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*TokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &TokenStore{client: client}, nil
}

func (ts *TokenStore) Close() error {
	if err := ts.client.Close(); err != nil {
		return fmt.Errorf("redis.TokenStore.Close: %w", err)
	}
	return nil
}

func (ts *TokenStore) Register(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	if err := ts.client.Set(ctx, refreshKey(tokenID), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis.TokenStore.Register: %w", err)
	}
	return nil
}

func (ts *TokenStore) Valid(ctx context.Context, tokenID string) (bool, error) {
	n, err := ts.client.Exists(ctx, refreshKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis.TokenStore.Valid: %w", err)
	}
	return n > 0, nil
}

func (ts *TokenStore) Revoke(ctx context.Context, tokenID string) error {
	if err := ts.client.Del(ctx, refreshKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("redis.TokenStore.Revoke: %w", err)
	}
	return nil
}

// refreshKey returns the Redis key for a refresh token ID.
func refreshKey(tokenID string) string {
	return "refresh:" + tokenID
}
