package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ClientIP returns the originating client address, preferring the proxy
// headers set by the load balancer.
func ClientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := ctx.RemoteAddr()
	if addr == "" {
		addr = ctx.Host()
	}

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
