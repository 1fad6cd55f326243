package middleware

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// WithUserID stamps the authenticated user id onto the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// BearerToken extracts the token from the Authorization header, or ""
// when the header is missing or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// TokenResolver maps an opaque token to a user id. "" means the token is
// unknown or expired.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RequireAuth validates the bearer token and injects the user id into the
// request context.
func RequireAuth(tokens TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "Authorization token required.")
				return
			}

			userID, err := tokens.Resolve(r.Context(), token)
			if err != nil || userID == "" {
				unauthorized(w, "Invalid or expired token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + msg + `"}`))
}
