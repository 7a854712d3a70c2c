package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"project_turnos/internal/entities"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps dialog state in Redis so several instances can
// share it. Keys expire at twice the dialog TTL; the engine still applies
// the logical 5-minute check from LastTouched so an expired dialog gets
// the restart reply rather than silently vanishing.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(addr string) (*RedisStateStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStateStore{client: client}, nil
}

func redisStateKey(tenantID int, phone string) string {
	return fmt.Sprintf("dialog:%d:%s", tenantID, phone)
}

func (s *RedisStateStore) Get(ctx context.Context, tenantID int, phone string) (*entities.ConversationState, error) {
	data, err := s.client.Get(ctx, redisStateKey(tenantID, phone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state entities.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisStateStore) Put(ctx context.Context, state *entities.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisStateKey(state.TenantID, state.Phone), data, 2*entities.DialogTTL).Err()
}

func (s *RedisStateStore) Delete(ctx context.Context, tenantID int, phone string) error {
	return s.client.Del(ctx, redisStateKey(tenantID, phone)).Err()
}

func (s *RedisStateStore) Close() error {
	return s.client.Close()
}
