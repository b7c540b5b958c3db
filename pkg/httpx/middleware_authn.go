package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/opsnorth/secchecklist/pkg/jwtx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

// AuthnMiddleware verifies the bearer session token before the handler body
// runs. All failures short-circuit with 403 and no business logic executes.
// The three failure kinds share the status code but are logged distinctly.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				log.Warn("auth: no token presented")
				WriteError(w, http.StatusForbidden, "Token is missing")
				return
			}

			// The header is scheme-prefixed ("Bearer <token>"); the token is
			// the second whitespace-separated field.
			fields := strings.Fields(authz)
			if len(fields) < 2 {
				log.Warn("auth: unsplittable authorization header")
				WriteError(w, http.StatusForbidden, "Invalid token")
				return
			}

			claims, err := v.Verify(fields[1])
			switch {
			case errors.Is(err, jwtx.ErrExpired):
				log.Warn("auth: token expired")
				WriteError(w, http.StatusForbidden, "Token has expired")
				return
			case err != nil:
				log.Warn("auth: token verification failed", "err", err)
				WriteError(w, http.StatusForbidden, "Invalid token")
				return
			}

			// Inject the verified identity for downstream handlers.
			ctx = context.WithValue(ctx, CtxKeyEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
