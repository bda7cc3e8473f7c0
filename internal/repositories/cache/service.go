package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service is a thin JSON cache over Redis. A nil *Service is a valid
// no-op cache, so callers never need to branch on whether caching is
// configured.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

// Set stores value under key with the default TTL.
func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	if s == nil {
		return nil
	}
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *Service) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the cached value into dest. The bool reports a hit.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s == nil {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if s == nil || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Service) FlushAll(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.client.FlushAll(ctx).Err()
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// Cache key helpers

func MerchantKey(keyHash string) string {
	return "merchant:key:" + keyHash
}

func BalanceKey(merchantID uint) string {
	return fmt.Sprintf("balance:%d", merchantID)
}

const DirectoryKey = "directory:active"
