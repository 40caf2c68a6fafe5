package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("sets CORS headers and passes the request through", func(t *testing.T) {
		handler := CORSMiddleware("*")(next)

		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	})

	t.Run("answers preflight with an empty 200", func(t *testing.T) {
		handler := CORSMiddleware("*")(next)

		req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("honors a configured origin", func(t *testing.T) {
		handler := CORSMiddleware("https://app.example.com")(next)

		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("falls back to the wildcard origin", func(t *testing.T) {
		handler := CORSMiddleware("")(next)

		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
