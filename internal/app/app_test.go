package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractdesk/contractdesk/config"
	"github.com/contractdesk/contractdesk/internal/database/schema"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			Host:            "127.0.0.1",
			CORSAllowOrigin: "*",
		},
		Environment: "test",
		LogLevel:    "error",
	}
}

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := NewApp(testConfig(), WithDB(db), WithLogger(logger.NewTestLogger(t)))
	return a, mock
}

func TestApp_Initialize(t *testing.T) {
	a, mock := newTestApp(t)

	for range schema.TableDefinitions {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err := a.Initialize()
	require.NoError(t, err)
	assert.NotNil(t, a.Router())
	assert.NotNil(t, a.DB())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_Routes(t *testing.T) {
	a, mock := newTestApp(t)

	for range schema.TableDefinitions {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, a.Initialize())

	t.Run("serves the index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "endpoints")
	})

	t.Run("applies CORS headers on API routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("serves the client list through the full stack", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "created_at", "contract_count"})
		mock.ExpectQuery("SELECT (.+) FROM clients c").WillReturnRows(rows)

		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestApp_Shutdown(t *testing.T) {
	a, mock := newTestApp(t)

	for range schema.TableDefinitions {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, a.Initialize())
	mock.ExpectClose()

	err := a.Shutdown(context.Background())
	require.NoError(t, err)
}
