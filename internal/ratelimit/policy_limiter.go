package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts requests per key in a sliding window.
type Store interface {
	// Record logs one request for key and returns how many requests key has
	// made within window, this one included.
	Record(ctx context.Context, key string, window time.Duration) (int64, error)
}

// LimitExceeded describes the limit a request ran into.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// RetryAfter is a conservative wait before the client should try again.
func (e *LimitExceeded) RetryAfter() time.Duration {
	return e.Config.Window
}

// PolicyLimiter enforces a Policy over the scopes resolved for a request.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a policy based limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every limit of every scope and reports
// the first one exceeded.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		limits, ok := l.policy.Limits[scope]
		if !ok {
			continue
		}

		prefix := fmt.Sprintf("%s:%s", clientKey, scope)

		allowed, exceeded, err := l.check(ctx, prefix, scope, limits)
		if err != nil || !allowed {
			return allowed, exceeded, err
		}
	}

	return true, nil, nil
}

// AllowLimits applies limits attached to a single route. route should be the
// route template so every path under it shares one counter per client.
func (l *PolicyLimiter) AllowLimits(
	ctx context.Context, clientKey, route string, limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	return l.check(ctx, fmt.Sprintf("%s:route:%s", clientKey, route), "", limits)
}

func (l *PolicyLimiter) check(
	ctx context.Context, prefix string, scope Scope, limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:%d", prefix, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &LimitExceeded{
				Scope:  scope,
				Config: limit,
				Count:  count,
			}, nil
		}
	}

	return true, nil, nil
}
