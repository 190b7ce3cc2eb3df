package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisConversationKeyPrefix namespaces cached conversation states by handle
const RedisConversationKeyPrefix = "conversation:state:"

// ConversationCache is a read-through copy of conversation states keyed by handle.
// A miss is reported as (nil, nil).
type ConversationCache interface {
	Get(ctx context.Context, handle string) (*entity.ConversationState, error)
	Set(ctx context.Context, state *entity.ConversationState) error
	Delete(ctx context.Context, handle string) error
}

type redisConversationCache struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewRedisConversationCache(client *redis.Client, log *logrus.Logger, ttl time.Duration) ConversationCache {
	return &redisConversationCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (c *redisConversationCache) Get(ctx context.Context, handle string) (*entity.ConversationState, error) {
	raw, err := c.client.Get(ctx, conversationKey(handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation state %s: %w", handle, err)
	}

	var state entity.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		// Corrupt entries are dropped and treated as a miss
		c.log.Warnf("Failed to decode cached conversation state %s: %+v", handle, err)
		_ = c.client.Del(ctx, conversationKey(handle)).Err()
		return nil, nil
	}
	return &state, nil
}

func (c *redisConversationCache) Set(ctx context.Context, state *entity.ConversationState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode conversation state %s: %w", state.Handle, err)
	}
	if err := c.client.Set(ctx, conversationKey(state.Handle), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set conversation state %s: %w", state.Handle, err)
	}
	return nil
}

func (c *redisConversationCache) Delete(ctx context.Context, handle string) error {
	if err := c.client.Del(ctx, conversationKey(handle)).Err(); err != nil {
		return fmt.Errorf("delete conversation state %s: %w", handle, err)
	}
	return nil
}

func conversationKey(handle string) string {
	return RedisConversationKeyPrefix + handle
}

type noopConversationCache struct{}

// NewNoopConversationCache returns a cache that never stores anything
func NewNoopConversationCache() ConversationCache {
	return noopConversationCache{}
}

func (noopConversationCache) Get(context.Context, string) (*entity.ConversationState, error) {
	return nil, nil
}

func (noopConversationCache) Set(context.Context, *entity.ConversationState) error { return nil }

func (noopConversationCache) Delete(context.Context, string) error { return nil }
