package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/todopad/todopad-go/internal/model"
)

// AuthHeader carries the bearer token on requests and freshly issued tokens
// on register/login responses.
const AuthHeader = "x-auth"

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// TokenAuthenticator resolves a bearer token to the user that holds it.
type TokenAuthenticator interface {
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
}

// Authenticate returns middleware that resolves the x-auth token and attaches
// the user and raw token to the request context. A missing header, a bad
// signature, an unknown user, and a revoked token all short-circuit with 401
// before the handler runs.
func Authenticate(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthHeader)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing auth token")
				return
			}

			user, err := auth.GetUserByToken(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid auth token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// TokenFromContext extracts the raw bearer token the request authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
