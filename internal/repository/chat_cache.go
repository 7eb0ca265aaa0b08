package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quickchat/internal/model"

	"github.com/redis/go-redis/v9"
)

// ChatCacheRepository кеш истории сообщений чата. Кеш хранит историю
// только целиком: отправка нового сообщения сбрасывает ключ, частичных
// списков в кеше не бывает
type ChatCacheRepository interface {
	GetMessages(ctx context.Context, chatID uint) ([]model.Message, bool, error)
	SetMessages(ctx context.Context, chatID uint, messages []model.Message) error
	ClearMessages(ctx context.Context, chatID uint) error
}

type chatCacheRepository struct {
	rdb *redis.Client
}

func NewChatCacheRepository(rdb *redis.Client) ChatCacheRepository {
	return &chatCacheRepository{rdb: rdb}
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (r *chatCacheRepository) getMessageKey(chatID uint) string {
	return fmt.Sprintf("chat:%d:messages", chatID)
}

// GetMessages возвращает историю из кеша; второй результат — попадание
func (r *chatCacheRepository) GetMessages(ctx context.Context, chatID uint) ([]model.Message, bool, error) {
	if chatID == 0 {
		return nil, false, fmt.Errorf("chatID cannot be zero")
	}

	key := r.getMessageKey(chatID)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check cache key: %w", err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	values, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get messages from redis: %w", err)
	}

	messages := make([]model.Message, 0, len(values))
	for _, v := range values {
		var msg model.Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			// Пропускаем некорректные сообщения
			continue
		}
		messages = append(messages, msg)
	}

	return messages, true, nil
}

// SetMessages перезаписывает кеш истории целиком
func (r *chatCacheRepository) SetMessages(ctx context.Context, chatID uint, messages []model.Message) error {
	if chatID == 0 {
		return fmt.Errorf("chatID cannot be zero")
	}

	key := r.getMessageKey(chatID)

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.Expire(ctx, key, 24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache messages: %w", err)
	}

	return nil
}

func (r *chatCacheRepository) ClearMessages(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return fmt.Errorf("chatID cannot be zero")
	}

	if err := r.rdb.Del(ctx, r.getMessageKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	return nil
}
