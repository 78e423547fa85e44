// Package auth authenticates calling services by bearer token.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	audit "pinguard/pkg/platform/audit"
	"pinguard/pkg/requestcontext"
)

// TokenValidator validates a service token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// AuditPublisher receives auth failures. It may be nil.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Claims represents the claims the middleware needs from a validated token.
type Claims struct {
	Caller string
	JTI    string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireServiceToken rejects requests without a valid bearer token and
// stores the token's caller in the context.
func RequireServiceToken(validator TokenValidator, auditor AuditPublisher, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				recordFailure(ctx, auditor, logger, "missing_token")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				recordFailure(ctx, auditor, logger, "invalid_token")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			if claims.Caller == "" {
				logger.WarnContext(ctx, "unauthorized access - token without subject",
					"request_id", requestID,
				)
				recordFailure(ctx, auditor, logger, "missing_subject")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithCaller(ctx, claims.Caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func recordFailure(ctx context.Context, auditor AuditPublisher, logger *slog.Logger, reason string) {
	if auditor == nil {
		return
	}
	err := auditor.Emit(ctx, audit.Event{
		Action:    string(audit.EventAuthFailed),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.DeviceName(ctx),
		Timestamp: requestcontext.Now(ctx),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to record auth failure",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
