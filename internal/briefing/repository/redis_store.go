package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "briefing:record:" // briefing:record:{username} -> envelope JSON
)

// RedisStore keeps each envelope as a JSON string without expiry
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (r *RedisStore) Store(ctx context.Context, key string, rec domain.ClientRecord) error {
	if err := validKey(key); err != nil {
		return err
	}
	rec.Normalize()
	data, err := json.Marshal(domain.Envelope{LastUpdated: r.now().UTC(), Data: rec})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := r.client.Set(ctx, r.recordKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// Fetch treats an undecodable value as absent
func (r *RedisStore) Fetch(ctx context.Context, key string) (domain.ClientRecord, bool, error) {
	if err := validKey(key); err != nil {
		return domain.ClientRecord{}, false, err
	}
	data, err := r.client.Get(ctx, r.recordKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ClientRecord{}, false, nil
	}
	if err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to get record: %w", err)
	}

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("[warn] operation=redis_store.fetch key=%s malformed record, treating as absent: %v", key, err)
		return domain.ClientRecord{}, false, nil
	}
	env.Data.Normalize()
	return env.Data, true, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) recordKey(key string) string {
	return fmt.Sprintf("%s%s", recordKeyPrefix, key)
}
