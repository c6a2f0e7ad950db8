// ABOUTME: Redis-backed session projection store
// ABOUTME: One key per session under tranquil-auth:<id> with TTL past expiry

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// refreshGrace keeps a projection alive past its token expiry so bootstrap
// can still attempt a refresh with the longer-lived refresh token.
const refreshGrace = 24 * time.Hour

// RedisStore persists session projections in Redis, one JSON value per
// session. Keys expire on their own, so stale projections clean themselves
// up even if Delete is never called.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Save(ctx context.Context, s models.Session) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("session has no id")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(s.TokenExpiry) + refreshGrace
	if ttl < time.Minute {
		ttl = time.Minute
	}

	if err := r.client.Set(ctx, redisKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadAll(ctx context.Context) ([]models.Session, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	var sessions []models.Session
	iter := r.client.Scan(ctx, 0, Namespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err == goredis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", iter.Val(), err)
		}

		var s models.Session
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			slog.Warn("Dropping unreadable session projection", "key", iter.Val(), "error", err)
			continue
		}
		sessions = append(sessions, s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}

func redisKey(id string) string {
	return Namespace + ":" + id
}
