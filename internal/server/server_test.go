package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs redirects the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{AddSource: true})))
	t.Cleanup(func() { slog.SetDefault(original) })
	return &buf
}

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	logs := captureLogs(t)

	e := echo.New()
	setupErrorHandling(e)
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dataset exploded")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())

	out := logs.String()
	assert.Contains(t, out, "Internal Server Error (Unhandled)")
	assert.Contains(t, out, `error="dataset exploded"`)
	assert.Contains(t, out, "stack_trace=")
	assert.Contains(t, out, "runtime/debug/stack.go")
	assert.Contains(t, out, "internal/server/server_test.go")
}

func TestHTTPErrorHandler_Responses(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
		wantBody string
		wantLog  bool
	}{
		{
			name:     "api errors answer json",
			path:     "/api/revalidate",
			err:      errors.New("upstream down"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
			wantLog:  true,
		},
		{
			name:     "http errors pass through",
			path:     "/studio/post",
			err:      echo.NewHTTPError(http.StatusNotFound, "unknown document type"),
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"unknown document type"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			e := echo.New()
			setupErrorHandling(e)
			e.GET(tt.path, func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantLog, bytes.Contains(logs.Bytes(), []byte("(Unhandled)")))
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(Dependencies{})
	require.Error(t, err)

	cfg := testutils.Config(t, nil)
	s, err := New(Dependencies{Config: cfg})
	require.NoError(t, err)
	s.RegisterRoutes()

	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
