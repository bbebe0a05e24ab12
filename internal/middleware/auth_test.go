package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/chekline/backend/internal/services"
)

func TestAuthMiddleware(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	tokens := services.NewTokenService("test-secret", 30*time.Minute)
	middleware := NewAuthMiddleware(tokens, db)

	var gotUserID int64
	var gotUsername string
	handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(int64)
		gotUsername, _ = r.Context().Value("username").(string)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token resolves user", func(t *testing.T) {
		token, err := tokens.Issue("boris")
		assert.NoError(t, err)

		mock.ExpectQuery("SELECT id FROM users WHERE username").
			WithArgs("boris").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		r := httptest.NewRequest("GET", "/checks/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), gotUserID)
		assert.Equal(t, "boris", gotUsername)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/checks/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/checks/", nil)
		r.Header.Set("Authorization", "Basic something")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/checks/", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := services.NewTokenService("test-secret", -time.Minute)
		token, err := expired.Issue("boris")
		assert.NoError(t, err)

		r := httptest.NewRequest("GET", "/checks/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown subject matches bad token response", func(t *testing.T) {
		token, err := tokens.Issue("ghost")
		assert.NoError(t, err)

		mock.ExpectQuery("SELECT id FROM users WHERE username").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		r := httptest.NewRequest("GET", "/checks/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})
}
