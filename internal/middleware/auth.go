package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/resumelens/resumelens/internal/domain/sessions"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionAuth resolves the bearer token to a session through the provider
// and stores the session in the request context. Session state is explicit
// per request; nothing downstream touches a global current user.
func SessionAuth(provider sessions.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimPrefix(auth, "Bearer ")
			token = strings.TrimSpace(token)
			if token == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			sess, err := provider.SessionFromToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, *sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session from context; ok is false when the
// request was not authenticated.
func GetSession(ctx context.Context) (sessions.Session, bool) {
	s, ok := ctx.Value(SessionKey).(sessions.Session)
	return s, ok
}
