package magiclink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"streamgate/pkg/sentinel"
)

const tokenKeyPrefix = "magiclink:"

// RedisTokenStore holds tokens in Redis with a TTL, so expiry needs no
// reaper and tokens survive process restarts.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("store magic link token: %w", err)
	}
	return nil
}

// Consume reads and deletes atomically (GETDEL), so a link can only ever be
// redeemed once even under concurrent clicks.
func (s *RedisTokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("consume magic link token: %w", err)
	}
	return userID, nil
}
