package preferences

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store interface {
	Load(ctx context.Context, userID string) (*Preferences, error)
	Persist(ctx context.Context, userID string, prefs *Preferences) error
	Update(ctx context.Context, userID string, values map[string]string) (*Preferences, error)
}

// RedisStore keeps one hash per user. Preferences never expire.
type RedisStore struct {
	client redis.Cmdable
	log    *zap.Logger
}

func NewRedisStore(client redis.Cmdable, log *zap.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

// Load returns the stored preferences for userID layered over Defaults.
// Fields that no longer parse are reset to their default.
func (s *RedisStore) Load(ctx context.Context, userID string) (*Preferences, error) {
	fields, err := s.client.HGetAll(ctx, prefsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	prefs := Defaults()
	for key, value := range fields {
		if err := prefs.Set(key, value); err != nil {
			s.log.Warn("ignoring stored preference",
				zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
		}
	}
	return &prefs, nil
}

func (s *RedisStore) Persist(ctx context.Context, userID string, prefs *Preferences) error {
	values := make([]any, 0, 2*len(Keys))
	for key, value := range prefs.Map() {
		values = append(values, key, value)
	}
	if err := s.client.HSet(ctx, prefsKey(userID), values...).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

// Update validates values and writes only those keys, so concurrent updates
// of different keys do not overwrite each other. It returns the merged
// preferences after the write.
func (s *RedisStore) Update(ctx context.Context, userID string, values map[string]string) (*Preferences, error) {
	checked := Defaults()
	if err := checked.Apply(values); err != nil {
		return nil, err
	}

	if len(values) > 0 {
		fields := make([]any, 0, 2*len(values))
		for key := range values {
			v, _ := checked.Get(key)
			fields = append(fields, key, v)
		}
		if err := s.client.HSet(ctx, prefsKey(userID), fields...).Err(); err != nil {
			return nil, fmt.Errorf("redis hset failed: %w", err)
		}
	}
	return s.Load(ctx, userID)
}

func prefsKey(userID string) string {
	return "prefs:" + userID
}
