package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore is a Store shared by every client instance of the same user
// agent. Cross-instance propagation rides on a pub/sub channel per
// namespace: each write publishes the change, and Watch delivers changes
// published by *other* instances (self-writes are filtered by origin id).
type RedisStore struct {
	client    *redis.Client
	namespace string
	origin    string
	logger    *zap.Logger
}

// wireChange is the published form of a Change, tagged with the writing
// instance so readers can skip their own writes.
type wireChange struct {
	Change
	Origin string `json:"origin"`
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, addr, password string, db int, namespace string, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("storage: redis ping failed: %w", err)
	}
	return &RedisStore{
		client:    client,
		namespace: namespace,
		origin:    uuid.NewString(),
		logger:    logger,
	}, nil
}

func (s *RedisStore) key(key string) string {
	return s.namespace + ":" + key
}

func (s *RedisStore) channel() string {
	return s.namespace + ":changes"
}

// Get returns the value for key and whether it was present
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes a single key
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.SetMulti(ctx, map[string]string{key: value})
}

// SetMulti writes several keys and publishes the changes in one pipeline
func (s *RedisStore) SetMulti(ctx context.Context, kv map[string]string) error {
	pipe := s.client.TxPipeline()
	for k, v := range kv {
		pipe.Set(ctx, s.key(k), v, 0)
		s.publish(ctx, pipe, Change{Key: k, Value: v, Op: OpSet})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storage: set: %w", err)
	}
	return nil
}

// Delete removes the given keys and publishes the deletions in one pipeline
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	pipe := s.client.TxPipeline()
	for _, k := range keys {
		pipe.Del(ctx, s.key(k))
		s.publish(ctx, pipe, Change{Key: k, Op: OpDelete})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

// Watch subscribes to the namespace channel and forwards changes made by
// other instances until ctx is cancelled
func (s *RedisStore) Watch(ctx context.Context) (<-chan Change, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("storage: subscribe: %w", err)
	}

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var wc wireChange
				if err := json.Unmarshal([]byte(msg.Payload), &wc); err != nil {
					s.logger.Warn("storage: dropping malformed change notification", zap.Error(err))
					continue
				}
				if wc.Origin == s.origin {
					continue
				}
				select {
				case out <- wc.Change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) publish(ctx context.Context, pipe redis.Pipeliner, change Change) {
	payload, err := json.Marshal(wireChange{Change: change, Origin: s.origin})
	if err != nil {
		s.logger.Error("storage: marshal change notification", zap.Error(err))
		return
	}
	pipe.Publish(ctx, s.channel(), payload)
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
