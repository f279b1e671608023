// Package rediscache implements the cache store contract on Redis. It backs
// the priority queue buckets with sorted sets, the overdue membership with a
// plain set, and snapshots with expiring string values.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/pkg/errs"
)

// RedisCacheStore implements ports.CacheStore on a Redis client.
// Errors are returned as-is; callers decide whether a failure is fatal.
// Nothing stored here is authoritative, so the queue cache treats every
// error as a miss.
type RedisCacheStore struct {
	client *redis.Client
}

// NewRedisCacheStore creates a cache store on top of the given Redis client.
func NewRedisCacheStore(client *redis.Client) (*RedisCacheStore, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}

	return &RedisCacheStore{client: client}, nil
}

// SetValue stores a string value under key with a TTL.
// A non-positive ttl stores the value without expiry.
func (s *RedisCacheStore) SetValue(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

// GetValue retrieves the value stored under key.
// A redis.Nil reply is a miss, not an error.
func (s *RedisCacheStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes the given keys. Missing keys are ignored.
func (s *RedisCacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Expire refreshes the TTL of an existing key.
func (s *RedisCacheStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

// SortedSetAdd upserts a member with the given score.
func (s *RedisCacheStore) SortedSetAdd(ctx context.Context, key, member string, score float64) error {
	return s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// SortedSetRemove removes members from a sorted set. Missing members are ignored.
func (s *RedisCacheStore) SortedSetRemove(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(members))
	for _, member := range members {
		args = append(args, member)
	}
	return s.client.ZRem(ctx, key, args...).Err()
}

// SortedSetRangeDesc returns members ordered by descending score,
// from rank start to stop inclusive.
func (s *RedisCacheStore) SortedSetRangeDesc(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.client.ZRevRange(ctx, key, start, stop).Result()
}

// SortedSetCard returns the number of members in a sorted set.
func (s *RedisCacheStore) SortedSetCard(ctx context.Context, key string) (int64, error) {
	return s.client.ZCard(ctx, key).Result()
}

// SetAdd adds members to an unordered set.
func (s *RedisCacheStore) SetAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(members))
	for _, member := range members {
		args = append(args, member)
	}
	return s.client.SAdd(ctx, key, args...).Err()
}

// SetRemove removes members from an unordered set. Missing members are ignored.
func (s *RedisCacheStore) SetRemove(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(members))
	for _, member := range members {
		args = append(args, member)
	}
	return s.client.SRem(ctx, key, args...).Err()
}

// SetMembers returns all members of an unordered set.
func (s *RedisCacheStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, key).Result()
}

// Publish sends a payload on a pub/sub channel for external subscribers.
func (s *RedisCacheStore) Publish(ctx context.Context, channel, payload string) error {
	return s.client.Publish(ctx, channel, payload).Err()
}
