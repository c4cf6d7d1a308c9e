package transport

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator verifies a bearer key.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) error
}

// StaticKey authenticates callers against a single configured API key.
// Only the key's hash is kept in memory.
type StaticKey struct {
	hash [sha256.Size]byte
}

// NewStaticKey creates a StaticKey for key.
func NewStaticKey(key string) *StaticKey {
	return &StaticKey{hash: hashToken(key)}
}

// Authenticate implements Authenticator.
func (k *StaticKey) Authenticate(_ context.Context, token string) error {
	sum := hashToken(token)
	if token == "" || subtle.ConstantTimeCompare(sum[:], k.hash[:]) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func hashToken(token string) [sha256.Size]byte {
	return sha256.Sum256([]byte(token))
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{Code: "UNAUTHORIZED", Message: "missing bearer token"}})
				return
			}
			if err := auth.Authenticate(r.Context(), token); err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{Code: "UNAUTHORIZED", Message: "invalid bearer token"}})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
