package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache key prefixes and TTLs. Keys are invalidated on write, TTLs are a
// backstop against stale entries surviving a missed invalidation.
const (
	UserKeyPrefix     = "user:"
	MessageKeyPrefix  = "message:"
	RecentMessagesKey = "messages:recent"

	UserTTL           = 10 * time.Minute
	MessageTTL        = 5 * time.Minute
	RecentMessagesTTL = 30 * time.Second
)

// UserKey returns the cache key for a user by ID.
func UserKey(id uint) string {
	return fmt.Sprintf("%s%d", UserKeyPrefix, id)
}

// MessageKey returns the cache key for a message by ID.
func MessageKey(id uint) string {
	return fmt.Sprintf("%s%d", MessageKeyPrefix, id)
}

// Invalidate deletes the given keys. Best effort, safe with no client.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateUser removes the cached entry for a user.
func InvalidateUser(ctx context.Context, id uint) {
	Invalidate(ctx, UserKey(id))
}

// InvalidateMessage removes the cached entry for a message along with the
// recent-messages list it may appear in.
func InvalidateMessage(ctx context.Context, id uint) {
	Invalidate(ctx, MessageKey(id), RecentMessagesKey)
}

// InvalidateRecentMessages removes the cached recent-messages list.
func InvalidateRecentMessages(ctx context.Context) {
	Invalidate(ctx, RecentMessagesKey)
}
