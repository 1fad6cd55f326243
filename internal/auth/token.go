package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// TokenStore issues and resolves opaque bearer tokens. Tokens carry no
// claims themselves; the user id lives server-side, so revocation is a
// single delete.
type TokenStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// RedisTokenStore keeps token -> user id mappings in Redis with a TTL.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, "token:"+token, userID, TokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id for a token, or "" when unknown or expired.
func (s *RedisTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "token:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "token:"+token).Err()
}
