package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/jrsteele09/go-hms/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyIdentity stores the authenticated user's identity
	ContextKeyIdentity ContextKey = "identity"
	// ContextKeyAccessToken stores the raw bearer token
	ContextKeyAccessToken ContextKey = "access_token"
)

// IdentityFromContext returns the authenticated identity injected by
// RequireAuth, or nil on an unauthenticated request.
func IdentityFromContext(ctx context.Context) *users.Identity {
	identity, _ := ctx.Value(ContextKeyIdentity).(*users.Identity)
	return identity
}

// RequireAuth validates the Bearer access token and injects the caller's
// identity into the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}
			rawToken := parts[1]

			introspection, err := s.tokens.Introspection(rawToken)
			if err != nil || introspection == nil || !introspection.Active {
				writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
				return
			}

			// The token's claims carry everything the handlers gate on, but a
			// blocked or deleted user must lose access before the token expires
			user, err := s.repos.Users.GetByUsername(introspection.Username)
			if err != nil || user == nil || user.Blocked {
				writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, user.Identity())
			ctx = context.WithValue(ctx, ContextKeyAccessToken, rawToken)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRoles admits only callers whose role is in the allowed set. Must be
// chained after RequireAuth. Role matching is exact; admin gets no implicit
// pass unless listed.
func (s *Server) RequireRoles(allowed ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}
			if !slices.Contains(allowed, identity.Role) {
				writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
				return
			}
			next(w, r)
		}
	}
}
