package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/clubin-web/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware enforcing the limiter's policy.
//
// Operations can carry a ratelimit.EndpointConfig under ratelimit.MetadataKey
// to disable limiting, force a scope or replace the policy with their own
// limits. Custom limits are counted per route template, so /e/{code} shares
// one counter per client across all codes.
func RateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		route := operationPath(ctx)
		key := clientKey(ctx)

		var (
			allowed  bool
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		cfg := ratelimit.EndpointConfigFrom(ctx)

		switch {
		case cfg != nil && cfg.Disabled:
			next(ctx)

			return
		case cfg != nil && len(cfg.Limits) > 0:
			allowed, exceeded, err = limiter.AllowLimits(ctx.Context(), key, route, cfg.Limits)
		default:
			allowed, exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", route), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			rejectRequest(api, ctx, exceeded, route, logger)

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}

// clientKey identifies a client by IP and user agent without storing either.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(ClientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}

func rejectRequest(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	route string,
	logger *zap.Logger,
) {
	msg := "rate limit exceeded"

	if exceeded != nil {
		scope := string(exceeded.Scope)
		if scope == "" {
			scope = "route"
		}

		msg = fmt.Sprintf("rate limit exceeded: %s scope, %d/%d requests in %s",
			scope, exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)

		retry := int64(math.Ceil(exceeded.RetryAfter().Seconds()))
		ctx.SetHeader("Retry-After", strconv.FormatInt(retry, 10))

		logger.Warn("rate limit exceeded",
			zap.String("path", route),
			zap.String("method", ctx.Method()),
			zap.String("scope", scope),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
			zap.String("client_ip", ClientIP(ctx)),
		)
	}

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}
