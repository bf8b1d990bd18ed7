package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient dials addr and verifies the connection before returning.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RedisDeduplicator claims event ids so a redelivered message is archived once.
type RedisDeduplicator struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisDeduplicator(client redis.Cmdable, ttl time.Duration) *RedisDeduplicator {
	return &RedisDeduplicator{
		client: client,
		ttl:    ttl,
	}
}

func key(eventID string) string {
	return fmt.Sprintf("ads:archived:%s", eventID)
}

// Claim reports true when this caller is the first to see eventID within the ttl.
func (r *RedisDeduplicator) Claim(ctx context.Context, eventID string) (bool, error) {
	wasSet, err := r.client.SetNX(ctx, key(eventID), "1", r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return wasSet, nil
}

// Release drops a claim so a failed event can be retried on redelivery.
func (r *RedisDeduplicator) Release(ctx context.Context, eventID string) error {
	if err := r.client.Del(ctx, key(eventID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
