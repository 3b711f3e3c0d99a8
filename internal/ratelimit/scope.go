package ratelimit

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Scope groups requests that share a set of limits.
type Scope string

const (
	// ScopeGlobal applies to every request.
	ScopeGlobal Scope = "global"
	// ScopeRead covers pages and catalog reads.
	ScopeRead Scope = "read"
	// ScopeWrite covers short link creation and any other mutation.
	ScopeWrite Scope = "write"
)

// MetadataKey is the huma operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// EndpointConfig tunes rate limiting for one operation.
type EndpointConfig struct {
	// Scope replaces the method based scope. Ignored when Limits is set.
	Scope Scope

	// Limits replaces the policy entirely for this route.
	Limits []LimitConfig

	// Disabled turns rate limiting off for the route.
	Disabled bool
}

// ScopeResolver picks the scopes a request is counted against.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// MethodScope classifies safe methods as reads and everything else as
// writes.
func MethodScope(method string) Scope {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ScopeRead
	default:
		return ScopeWrite
	}
}

// OperationScopeResolver counts every request against ScopeGlobal plus the
// scope from the operation metadata, falling back to MethodScope.
type OperationScopeResolver struct{}

// NewOperationScopeResolver creates an operation aware scope resolver.
func NewOperationScopeResolver() *OperationScopeResolver {
	return &OperationScopeResolver{}
}

// Resolve returns the scopes for a request.
func (r *OperationScopeResolver) Resolve(ctx huma.Context) []Scope {
	if cfg := EndpointConfigFrom(ctx); cfg != nil && cfg.Scope != "" {
		return []Scope{ScopeGlobal, cfg.Scope}
	}

	return []Scope{ScopeGlobal, MethodScope(ctx.Method())}
}

// EndpointConfigFrom returns the EndpointConfig of the matched operation, or
// nil when there is none.
func EndpointConfigFrom(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
