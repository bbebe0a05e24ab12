package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/chekline/backend/internal/services"
)

func newQRRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	service := services.NewQRService(services.NewCheckRepository(db), "http://localhost:8080")
	handler := NewQRHandler(service)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), "userID", int64(1))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/checks/{id}/qr", handler.GetCheckQR)

	return r, mock, func() { db.Close() }
}

func expectCheckLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM checks WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "total", "rest", "payment_type",
			"payment_amount", "additional_data", "public_token", "created_at",
		}).AddRow(int64(42), int64(1), 6.00, 4.00, "cash", 10.00, nil, "sometoken", time.Now()))
	mock.ExpectQuery("SELECT (.+) FROM check_products WHERE check_id = ANY").
		WithArgs(pq.Array([]int64{42})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "check_id", "name", "price", "quantity", "total"}))
}

func TestQRHandler_GetCheckQR(t *testing.T) {
	t.Run("serves a PNG", func(t *testing.T) {
		router, mock, cleanup := newQRRouter(t)
		defer cleanup()

		expectCheckLookup(mock)

		r := httptest.NewRequest("GET", "/checks/42/qr", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), w.Body.Bytes()[:8])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("custom size", func(t *testing.T) {
		router, mock, cleanup := newQRRouter(t)
		defer cleanup()

		expectCheckLookup(mock)

		r := httptest.NewRequest("GET", "/checks/42/qr?size=512", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("size out of range", func(t *testing.T) {
		router, _, cleanup := newQRRouter(t)
		defer cleanup()

		for _, size := range []string{"32", "2048", "abc"} {
			r := httptest.NewRequest("GET", "/checks/42/qr?size="+size, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code, "size=%s", size)
		}
	})

	t.Run("missing check", func(t *testing.T) {
		router, mock, cleanup := newQRRouter(t)
		defer cleanup()

		mock.ExpectQuery("SELECT (.+) FROM checks WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(int64(99), int64(1)).
			WillReturnError(sql.ErrNoRows)

		r := httptest.NewRequest("GET", "/checks/99/qr", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		router, _, cleanup := newQRRouter(t)
		defer cleanup()

		r := httptest.NewRequest("GET", "/checks/abc/qr", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
