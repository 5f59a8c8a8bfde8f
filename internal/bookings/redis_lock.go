package bookings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ListingLocker serializes booking creation per listing. The database
// transaction still row-locks the listing, so losing the Redis lock is
// a fast-fail optimization, not the correctness boundary.
type ListingLocker struct {
	redis *redis.Client
}

// NewListingLocker creates a new listing locker
func NewListingLocker(redisClient *redis.Client) *ListingLocker {
	return &ListingLocker{redis: redisClient}
}

// Lua script for acquiring a per-listing lock - prevents race conditions
const luaAcquireListingLock = `
-- KEYS[1] = listing_id
-- ARGV[1] = token
-- ARGV[2] = ttl_seconds

local lock_key = "listing_lock:" .. KEYS[1]

if redis.call("EXISTS", lock_key) == 1 then
    return {0, redis.call("GET", lock_key)}
end

redis.call("SETEX", lock_key, tonumber(ARGV[2]), ARGV[1])
return {1, ARGV[1]}
`

// Lua script for releasing a listing lock - only the holder may release
const luaReleaseListingLock = `
-- KEYS[1] = listing_id
-- ARGV[1] = token

local lock_key = "listing_lock:" .. KEYS[1]

if redis.call("GET", lock_key) == ARGV[1] then
    redis.call("DEL", lock_key)
    return {1, "released"}
end

return {0, "not_holder"}
`

// Acquire takes the per-listing lock and returns a release token.
// Returns ErrListingBusy semantics via a false ok when another booking
// is mid-flight on the same listing.
func (l *ListingLocker) Acquire(ctx context.Context, listingID uuid.UUID, ttl time.Duration) (string, bool, error) {
	if l.redis == nil {
		// No Redis configured; rely on the database row lock alone.
		return "", true, nil
	}

	token := uuid.New().String()
	keys := []string{listingID.String()}
	args := []interface{}{token, strconv.Itoa(int(ttl.Seconds()))}

	result, err := l.redis.EvalSha(ctx, luaAcquireListingLock, keys, args...).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = l.redis.Eval(ctx, luaAcquireListingLock, keys, args...).Result()
		if err != nil {
			return "", false, fmt.Errorf("failed to acquire listing lock: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return "", false, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return "", false, fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if the token still owns it. Expired or stolen
// locks release as a no-op.
func (l *ListingLocker) Release(ctx context.Context, listingID uuid.UUID, token string) error {
	if l.redis == nil || token == "" {
		return nil
	}

	keys := []string{listingID.String()}
	args := []interface{}{token}

	_, err := l.redis.EvalSha(ctx, luaReleaseListingLock, keys, args...).Result()
	if err != nil {
		if _, err = l.redis.Eval(ctx, luaReleaseListingLock, keys, args...).Result(); err != nil {
			return fmt.Errorf("failed to release listing lock: %w", err)
		}
	}
	return nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (l *ListingLocker) PreloadScripts(ctx context.Context) error {
	if l.redis == nil {
		return nil
	}

	if _, err := l.redis.ScriptLoad(ctx, luaAcquireListingLock).Result(); err != nil {
		return fmt.Errorf("failed to load listing lock script: %w", err)
	}
	if _, err := l.redis.ScriptLoad(ctx, luaReleaseListingLock).Result(); err != nil {
		return fmt.Errorf("failed to load listing unlock script: %w", err)
	}
	return nil
}
