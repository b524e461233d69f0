// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/logging"
)

// ChiMiddleware builds the CORS and rate-limit middleware from security
// config. Both come from the chi ecosystem rather than hand-rolled
// implementations.
type ChiMiddleware struct {
	security config.SecurityConfig
	cors     func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory for the given
// security settings.
func NewChiMiddleware(security config.SecurityConfig) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	})

	return &ChiMiddleware{security: security, cors: corsHandler}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns an IP-keyed limiter, or a pass-through when rate
// limiting is disabled.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.security.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.security.RateLimitReqs,
		m.security.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

// RequestIDWithLogging wraps chi's RequestID middleware and places the
// id in the logging context so every handler log line carries it.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		chiRequestID := chimiddleware.RequestID(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
				r.Header.Set("X-Request-ID", requestID)
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			chiRequestID.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APISecurityHeaders sets the standard hardening headers on every API
// response. HSTS is added only when the request arrived over TLS or a
// TLS-terminating proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestTimeout bounds each request by the configured server timeout.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return chimiddleware.Timeout(timeout)
}
