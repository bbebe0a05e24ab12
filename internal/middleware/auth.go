package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/chekline/backend/internal/services"
)

// AuthMiddleware validates bearer tokens and resolves their subject to a
// user row. A bad token and a token whose subject no longer exists are
// rendered identically.
type AuthMiddleware struct {
	tokens *services.TokenService
	db     *sql.DB
}

func NewAuthMiddleware(tokens *services.TokenService, db *sql.DB) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		db:     db,
	}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		subject, err := m.tokens.Validate(parts[1])
		if err != nil {
			services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		var userID int64
		err = m.db.QueryRow(`SELECT id FROM users WHERE username = $1`, subject).Scan(&userID)
		if err != nil {
			// Deliberately the same response as a bad signature.
			services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", userID)
		ctx = context.WithValue(ctx, "username", subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
