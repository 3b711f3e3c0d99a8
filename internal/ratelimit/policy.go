package ratelimit

import "time"

// LimitConfig caps the number of requests within a sliding window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits enforced for them. Every limit of every
// resolved scope must hold for a request to pass.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// PolicyBuilder assembles a Policy.
type PolicyBuilder struct {
	policy *Policy
}

// NewPolicyBuilder starts an empty policy.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{policy: &Policy{Limits: make(map[Scope][]LimitConfig)}}
}

// AddLimit appends a limit of max requests per window to scope.
func (b *PolicyBuilder) AddLimit(scope Scope, maxRequests int64, window time.Duration) *PolicyBuilder {
	b.policy.Limits[scope] = append(b.policy.Limits[scope], LimitConfig{Window: window, Max: maxRequests})

	return b
}

// Build returns the assembled policy.
func (b *PolicyBuilder) Build() *Policy {
	return b.policy
}

// DefaultPolicy is generous on page and catalog reads and tighter on writes,
// which only create short links.
func DefaultPolicy() *Policy {
	return NewPolicyBuilder().
		AddLimit(ScopeGlobal, 600, time.Minute).
		AddLimit(ScopeRead, 300, time.Minute).
		AddLimit(ScopeWrite, 30, time.Minute).
		AddLimit(ScopeWrite, 300, time.Hour).
		Build()
}

// ShortLinkLimits are the per-endpoint limits for creating short links.
func ShortLinkLimits() []LimitConfig {
	return []LimitConfig{
		{Window: time.Minute, Max: 10},
		{Window: time.Hour, Max: 100},
	}
}
