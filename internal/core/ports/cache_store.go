package ports

import (
	"context"
	"time"
)

// CacheStore is the contract consumed from the shared cache tier. It exposes
// the keyed value, set, and sorted-set operations the priority queue cache is
// built on, plus the publish channel other subsystems subscribe to.
//
// Every call must be bounded by its context: implementations fail fast on an
// unavailable cache rather than blocking the caller. The cache is never a
// correctness dependency; callers treat every error as a miss and recompute
// from the authoritative store.
type CacheStore interface {
	// SetValue stores a string value under key with a TTL.
	// A non-positive ttl stores the value without expiry.
	SetValue(ctx context.Context, key, value string, ttl time.Duration) error

	// GetValue retrieves the value stored under key.
	// The second return is false if the key is missing or expired.
	GetValue(ctx context.Context, key string) (string, bool, error)

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Expire refreshes the TTL of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// SortedSetAdd upserts a member with the given score.
	SortedSetAdd(ctx context.Context, key, member string, score float64) error

	// SortedSetRemove removes members from a sorted set. Missing members are ignored.
	SortedSetRemove(ctx context.Context, key string, members ...string) error

	// SortedSetRangeDesc returns members ordered by descending score,
	// from rank start to stop inclusive (0-based; -1 means the last member).
	SortedSetRangeDesc(ctx context.Context, key string, start, stop int64) ([]string, error)

	// SortedSetCard returns the number of members in a sorted set.
	SortedSetCard(ctx context.Context, key string) (int64, error)

	// SetAdd adds members to an unordered set.
	SetAdd(ctx context.Context, key string, members ...string) error

	// SetRemove removes members from an unordered set. Missing members are ignored.
	SetRemove(ctx context.Context, key string, members ...string) error

	// SetMembers returns all members of an unordered set.
	SetMembers(ctx context.Context, key string) ([]string, error)

	// Publish sends a payload on a pub/sub channel for external subscribers.
	Publish(ctx context.Context, channel, payload string) error
}
