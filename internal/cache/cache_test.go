package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetJSONMiss(t *testing.T) {
	setupTestCache(t)

	var dest cachedUser
	hit, err := GetJSON(context.Background(), "user:404", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSetAndGetJSON(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	in := cachedUser{ID: 7, Username: "tuckerdiane"}
	require.NoError(t, SetJSON(ctx, UserKey(7), in, UserTTL))

	var out cachedUser
	hit, getErr := GetJSON(ctx, UserKey(7), &out)
	require.NoError(t, getErr)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestGetJSONNoClient(t *testing.T) {
	SetClient(nil)

	var dest cachedUser
	hit, getErr := GetJSON(context.Background(), "user:1", &dest)
	require.NoError(t, getErr)
	assert.False(t, hit)
}

func TestAsideFetchesOnceThenServesFromCache(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	calls := 0
	var first cachedUser
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 3, Username: "gracehopper"}
			return nil
		}
	}

	require.NoError(t, Aside(ctx, UserKey(3), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "gracehopper", first.Username)

	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(3), &second, UserTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second read should come from the cache")
}

func TestAsidePropagatesFetchError(t *testing.T) {
	setupTestCache(t)

	wantErr := errors.New("record not found")
	var dest cachedUser
	asideErr := Aside(context.Background(), UserKey(9), &dest, UserTTL, func() error {
		return wantErr
	})
	assert.ErrorIs(t, asideErr, wantErr)
}

func TestInvalidateUser(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(5), cachedUser{ID: 5, Username: "ada"}, UserTTL))
	require.True(t, mr.Exists(UserKey(5)))

	InvalidateUser(ctx, 5)
	assert.False(t, mr.Exists(UserKey(5)))
}

func TestInvalidateMessageClearsRecentList(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, MessageKey(12), map[string]any{"id": 12}, MessageTTL))
	require.NoError(t, SetJSON(ctx, RecentMessagesKey, []uint{12}, RecentMessagesTTL))

	InvalidateMessage(ctx, 12)
	assert.False(t, mr.Exists(MessageKey(12)))
	assert.False(t, mr.Exists(RecentMessagesKey))
}

func TestAsideTTLExpiry(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	calls := 0
	var dest cachedUser
	fetch := func() error {
		calls++
		dest = cachedUser{ID: 1, Username: "warbler"}
		return nil
	}

	require.NoError(t, Aside(ctx, UserKey(1), &dest, time.Minute, fetch))

	mr.FastForward(2 * time.Minute)

	require.NoError(t, Aside(ctx, UserKey(1), &dest, time.Minute, fetch))
	assert.Equal(t, 2, calls, "expired entry should trigger a refetch")
}
