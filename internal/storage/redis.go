package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fictionkit/storyloom/pkg/state"
)

// statePrefix namespaces save keys in Redis.
const statePrefix = "state:"

// RedisStore keeps saved states in Redis as JSON, keyed by identity. Saves do
// not expire.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis at the given URL.
func NewRedisStore(redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opt), logger: logger}, nil
}

func (r *RedisStore) SaveState(ctx context.Context, st *state.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := r.client.Set(ctx, statePrefix+st.Name, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save state", "name", st.Name, "error", err)
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadState(ctx context.Context, name string) (*state.State, error) {
	data, err := r.client.Get(ctx, statePrefix+name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to load state", "name", name, "error", err)
		return nil, fmt.Errorf("loading state: %w", err)
	}

	var st state.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("unmarshaling state: %w", err)
	}
	return &st, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
