package middleware

import (
	"context"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

type SessionVerifier interface {
	Verify(token string) (domain.Identity, error)
}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFromContext returns domain.Anonymous when no session was resolved.
func IdentityFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(ctxIdentity).(domain.Identity)
	return id
}

// Identity resolves the session cookie into a domain.Identity. A missing or
// invalid cookie leaves the request anonymous; it never fails the request.
func Identity(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := domain.Anonymous

			if raw, err := security.ReadSession(r); err == nil && raw != "" {
				if v, err := verifier.Verify(raw); err == nil {
					id = v
				} else {
					logger.WithCtx(r.Context()).Debug().Err(err).Msg("session cookie rejected")
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
