package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

// RedisStore keeps conversations as JSON values with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisStore uses ttl for every write; zero keeps keys forever
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func conversationKey(userID int64) string {
	return fmt.Sprintf("user:%d:conversation", userID)
}

func (s *RedisStore) Load(ctx context.Context, userID int64) (Conversation, bool, error) {
	val, err := s.client.Get(ctx, conversationKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return NewConversation(userID), false, nil
	}
	if err != nil {
		return Conversation{}, false, apperrors.NewStorageError(err, "load conversation")
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		// a corrupt value restarts the conversation instead of wedging the user
		return NewConversation(userID), false, nil
	}
	conv.UserID = userID
	return conv, true, nil
}

func (s *RedisStore) Save(ctx context.Context, conv Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.client.Set(ctx, conversationKey(conv.UserID), data, s.ttl).Err(); err != nil {
		return apperrors.NewStorageError(err, "save conversation")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, conversationKey(userID)).Err(); err != nil {
		return apperrors.NewStorageError(err, "delete conversation")
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
