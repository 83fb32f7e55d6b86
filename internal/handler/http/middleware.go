package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/identity"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/httputil"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/logger"
)

// SessionHeader carries the anonymous session id assigned by the frontend.
const SessionHeader = "X-Session-ID"

type contextKey string

const (
	scopeKeyCtx contextKey = "scope_key"
	identityCtx contextKey = "identity"
)

// ScopeFromRequest returns the cart scope key resolved for the request.
func ScopeFromRequest(r *http.Request) string {
	if v, ok := r.Context().Value(scopeKeyCtx).(string); ok {
		return v
	}
	return ""
}

// IdentityFromRequest returns the authenticated identity, if any.
func IdentityFromRequest(r *http.Request) (identity.Identity, bool) {
	id, ok := r.Context().Value(identityCtx).(identity.Identity)
	return id, ok
}

// SessionFromRequest returns the anonymous session id header, if any.
func SessionFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

// ResolveScope resolves the cart scope for a request. A bearer token wins
// over a session header; a bad token is rejected rather than silently
// downgraded to an anonymous scope.
func ResolveScope(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				id, err := verifier.Verify(ctx, token)
				if err != nil {
					httputil.WriteError(w, r, err, logger.FromContext(ctx))
					return
				}
				ctx = context.WithValue(ctx, identityCtx, id)
				ctx = context.WithValue(ctx, scopeKeyCtx, id.ScopeKey())
				ctx = logger.WithScope(ctx, id.ScopeKey())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if session := SessionFromRequest(r); session != "" {
				key := identity.AnonScopeKey(session)
				ctx = context.WithValue(ctx, scopeKeyCtx, key)
				ctx = logger.WithScope(ctx, key)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireScope rejects requests that resolved neither an identity nor a
// session.
func RequireScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ScopeFromRequest(r) == "" {
			err := apperrors.Unauthorized("a bearer token or " + SessionHeader + " header is required")
			httputil.WriteError(w, r, err, logger.FromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from anyone but authenticated admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromRequest(r)
		if !ok {
			err := apperrors.Unauthorized("authentication required")
			httputil.WriteError(w, r, err, logger.FromContext(r.Context()))
			return
		}
		if !id.Admin {
			err := apperrors.Forbidden("admin access required")
			httputil.WriteError(w, r, err, logger.FromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON enforces a JSON content type on mutating requests.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				err := apperrors.InvalidInput("Content-Type must be application/json")
				httputil.WriteError(w, r, err, logger.FromContext(r.Context()))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
