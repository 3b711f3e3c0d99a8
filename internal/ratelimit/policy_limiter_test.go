package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/clubin-web/internal/ratelimit"
	"github.com/serroba/clubin-web/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Record(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, errStoreDown
}

func TestPolicyLimiter(t *testing.T) {
	policy := &ratelimit.Policy{
		Limits: map[ratelimit.Scope][]ratelimit.LimitConfig{
			ratelimit.ScopeGlobal: {{Window: time.Minute, Max: 5}},
			ratelimit.ScopeWrite:  {{Window: time.Minute, Max: 2}},
		},
	}

	t.Run("allows requests under every limit", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)

		for range 5 {
			allowed, exceeded, err := limiter.Allow(context.Background(), "client1",
				[]ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead})

			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Nil(t, exceeded)
		}
	})

	t.Run("reports the scope that was exceeded", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite}

		for range 2 {
			allowed, _, err := limiter.Allow(context.Background(), "client1", scopes)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1", scopes)

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, ratelimit.ScopeWrite, exceeded.Scope)
		assert.Equal(t, int64(3), exceeded.Count)
		assert.Equal(t, int64(2), exceeded.Config.Max)
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
		scopes := []ratelimit.Scope{ratelimit.ScopeWrite}

		for range 3 {
			_, _, _ = limiter.Allow(context.Background(), "client1", scopes)
		}

		allowed, _, err := limiter.Allow(context.Background(), "client2", scopes)

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("scopes without limits pass", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), &ratelimit.Policy{})

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1",
			[]ratelimit.Scope{ratelimit.ScopeGlobal})

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Nil(t, exceeded)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(failingStore{}, policy)

		allowed, _, err := limiter.Allow(context.Background(), "client1",
			[]ratelimit.Scope{ratelimit.ScopeGlobal})

		require.ErrorIs(t, err, errStoreDown)
		assert.False(t, allowed)
	})

	t.Run("allows again after the window", func(t *testing.T) {
		short := &ratelimit.Policy{
			Limits: map[ratelimit.Scope][]ratelimit.LimitConfig{
				ratelimit.ScopeGlobal: {{Window: 50 * time.Millisecond, Max: 1}},
			},
		}
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), short)
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal}

		_, _, _ = limiter.Allow(context.Background(), "client1", scopes)
		allowed, _, _ := limiter.Allow(context.Background(), "client1", scopes)
		assert.False(t, allowed)

		time.Sleep(60 * time.Millisecond)

		allowed, _, err := limiter.Allow(context.Background(), "client1", scopes)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestDefaultPolicy(t *testing.T) {
	policy := ratelimit.DefaultPolicy()

	for _, scope := range []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead, ratelimit.ScopeWrite} {
		assert.NotEmpty(t, policy.Limits[scope], "scope %s", scope)
	}

	assert.Equal(t, []ratelimit.LimitConfig{
		{Window: time.Minute, Max: 10},
		{Window: time.Hour, Max: 100},
	}, ratelimit.ShortLinkLimits())
}

func TestPolicyLimiter_AllowLimits(t *testing.T) {
	limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), &ratelimit.Policy{})
	limits := []ratelimit.LimitConfig{{Window: time.Minute, Max: 1}}

	allowed, _, err := limiter.AllowLimits(context.Background(), "client1", "/api/shortlinks", limits)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, exceeded, err := limiter.AllowLimits(context.Background(), "client1", "/api/shortlinks", limits)
	require.NoError(t, err)
	assert.False(t, allowed)
	require.NotNil(t, exceeded)
	assert.Equal(t, time.Minute, exceeded.RetryAfter())

	allowed, _, err = limiter.AllowLimits(context.Background(), "client1", "/api/other", limits)
	require.NoError(t, err)
	assert.True(t, allowed, "routes are counted separately")
}

func TestPolicyBuilder(t *testing.T) {
	policy := ratelimit.NewPolicyBuilder().
		AddLimit(ratelimit.ScopeWrite, 10, time.Minute).
		AddLimit(ratelimit.ScopeWrite, 100, time.Hour).
		Build()

	assert.Equal(t, []ratelimit.LimitConfig{
		{Window: time.Minute, Max: 10},
		{Window: time.Hour, Max: 100},
	}, policy.Limits[ratelimit.ScopeWrite])
	assert.Empty(t, policy.Limits[ratelimit.ScopeRead])
}
