package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// UsageCounter tracks per-user token consumption in daily buckets.
// Keys expire after 48h so stale buckets clean themselves up.
type UsageCounter struct {
	client RedisClient
}

func NewUsageCounter(client RedisClient) *UsageCounter {
	return &UsageCounter{client: client}
}

func usageKey(userID string, day time.Time) string {
	return fmt.Sprintf("usage:%s:%s", userID, day.UTC().Format("2006-01-02"))
}

// Add records tokens against today's bucket and returns the new total.
func (u *UsageCounter) Add(ctx context.Context, userID string, tokens int) (int, error) {
	key := usageKey(userID, time.Now())
	total, err := u.client.IncrBy(ctx, key, int64(tokens))
	if err != nil {
		return 0, err
	}
	if total == int64(tokens) {
		if err := u.client.Expire(ctx, key, 48*time.Hour); err != nil {
			return int(total), err
		}
	}
	return int(total), nil
}

// Used returns today's consumed tokens; a missing bucket counts as zero.
func (u *UsageCounter) Used(ctx context.Context, userID string) (int, error) {
	val, err := u.client.Get(ctx, usageKey(userID, time.Now()))
	if err != nil {
		if IsNil(err) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return n, nil
}
