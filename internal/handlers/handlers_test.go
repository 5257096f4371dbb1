package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRequest struct {
	Name string `json:"name" validate:"required"`
}

func TestBind(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	e.POST("/ping", func(c echo.Context) error {
		var req pingRequest
		if err := Bind(c, &req); err != nil {
			return JSONError(c, http.StatusBadRequest, err.Error())
		}
		return c.String(http.StatusOK, req.Name)
	})

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{"name":"acme"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", rec.Body.String())
	})

	t.Run("missing required field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":`)
		assert.JSONEq(t, `{"error":"invalid request: name is required"}`, rec.Body.String())
	})
}

func TestValidator_Messages(t *testing.T) {
	type pickerQuery struct {
		Field string `query:"field" validate:"required"`
		State string `query:"state" validate:"omitempty,oneof=idle uploading"`
		URL   string `query:"url" validate:"omitempty,url"`
	}

	v := NewValidator()
	assert.NoError(t, v.Validate(&pickerQuery{Field: "logo", URL: "https://example.test/a.png"}))

	err := v.Validate(&pickerQuery{State: "done", URL: "not a url"})
	require.Error(t, err)
	assert.Equal(t, "invalid request: field is required; state must be one of idle uploading; url must be a valid URL", err.Error())
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/health", Health)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
