// Package auth resolves the session cookie into an authenticated user and
// makes it available on the request context.
package auth

import (
	"context"
	"net/http"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

type contextKey struct{}

// User is the authenticated principal injected by the middleware.
type User struct {
	ID   string
	Role models.Role
}

// SessionResolver turns an opaque token into a live session.
type SessionResolver interface {
	Get(ctx context.Context, token string) (*models.Session, error)
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(contextKey{}).(User)
	return user, ok
}

// Middleware authenticates requests via the session cookie. Requests
// without a valid session are rejected with 401.
func Middleware(resolver SessionResolver, cookieName string, log logger.Logger) func(http.Handler) http.Handler {
	errh := errors.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				errh.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
				return
			}

			session, err := resolver.Get(r.Context(), cookie.Value)
			if err != nil {
				errh.WriteError(w, r, err)
				return
			}

			ctx := WithUser(r.Context(), User{ID: session.UserID, Role: session.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a handler behind a role check. It assumes Middleware
// already ran.
func RequireRole(role models.Role, log logger.Logger, next http.Handler) http.Handler {
	errh := errors.NewErrorHandler(log)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := FromContext(r.Context())
		if !ok {
			errh.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
			return
		}
		if user.Role != role {
			errh.WriteError(w, r, errors.NewForbiddenError("Insufficient role for this operation"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
