package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archnet/internal/cache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	c := cache.NewMemoryCache(&cache.Config{
		MaxKeys:         1000,
		CleanupInterval: time.Hour,
	}, zap.NewNop())
	t.Cleanup(func() { c.Close() })
	return NewStore(c, &Config{TTL: time.Minute}, zap.NewNop())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "comments:book:1", CommentsKey("book", "1").String())
	assert.Equal(t, "likes:research:r1", LikesKey("research", "r1").String())
	assert.Equal(t, "users:u1:likes", UserLikesKey("u1").String())
	assert.Equal(t, "saved", SavedKey().String())
}

func TestKeyHasPrefix(t *testing.T) {
	key := CommentsKey("book", "1")
	assert.True(t, key.HasPrefix(Key{"comments"}))
	assert.True(t, key.HasPrefix(Key{"comments", "book"}))
	assert.True(t, key.HasPrefix(key))
	assert.False(t, key.HasPrefix(Key{"likes"}))
	assert.False(t, key.HasPrefix(Key{"comments", "book", "1", "extra"}))
}

func TestGetOrFetchCachesResult(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return map[string]int{"count": 7}, nil
	}

	var first, second map[string]int
	require.NoError(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &first, fetch))
	require.NoError(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &second, fetch))

	assert.Equal(t, 7, first["count"])
	assert.Equal(t, 7, second["count"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second read must be served from cache")
}

func TestGetOrFetchError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	boom := errors.New("backend down")
	var calls int32
	failing := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	var dest map[string]int
	assert.ErrorIs(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &dest, failing), boom)

	// Nothing was cached; the next read retries the fetch.
	assert.ErrorIs(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &dest, failing), boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrFetchDeduplicatesInFlight(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var calls int32
	release := make(chan struct{})
	slowFetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"a", "b"}, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([][]string, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.GetOrFetch(ctx, SavedKey(), &results[i], slowFetch)
		}(i)
	}

	// Let every reader queue up on the same flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"a", "b"}, results[i])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent readers must share one fetch")
}

func TestInvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	value := 1
	fetch := func(ctx context.Context) (interface{}, error) {
		return map[string]int{"count": value}, nil
	}

	var got map[string]int
	require.NoError(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &got, fetch))
	assert.Equal(t, 1, got["count"])

	value = 2
	require.NoError(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &got, fetch))
	assert.Equal(t, 1, got["count"], "still cached")

	require.NoError(t, store.Invalidate(ctx, LikesKey("book", "1")))
	require.NoError(t, store.GetOrFetch(ctx, LikesKey("book", "1"), &got, fetch))
	assert.Equal(t, 2, got["count"], "invalidation must force a refetch")
}

func TestInvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := func(key Key, v int) {
		var dest map[string]int
		require.NoError(t, store.GetOrFetch(ctx, key, &dest, func(ctx context.Context) (interface{}, error) {
			return map[string]int{"v": v}, nil
		}))
	}
	seed(CommentsKey("book", "1"), 1)
	seed(CommentsKey("book", "2"), 2)
	seed(LikesKey("book", "1"), 3)

	require.NoError(t, store.InvalidatePrefix(ctx, Key{"comments"}))

	var dest map[string]int
	assert.False(t, store.Peek(ctx, CommentsKey("book", "1"), &dest))
	assert.False(t, store.Peek(ctx, CommentsKey("book", "2"), &dest))
	assert.True(t, store.Peek(ctx, LikesKey("book", "1"), &dest), "other prefixes stay cached")
}

func TestPrime(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Prime(ctx, SavedKey(), []string{"x"}))

	var dest []string
	require.True(t, store.Peek(ctx, SavedKey(), &dest))
	assert.Equal(t, []string{"x"}, dest)
}
