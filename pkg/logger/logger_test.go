package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestLoggerMiddleware_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&Options{Writer: &buf, Service: "kitchenpos"}))

	handler := middleware.RequestID(NewLoggerMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "Request served", record["msg"])
	require.Equal(t, "req-42", record["request_id"])
	require.Equal(t, "kitchenpos", record["service"])
	require.Equal(t, float64(http.StatusTeapot), record["status"])
	require.Equal(t, "/api/orders", record["path"])
}

func TestNewHandler_TextFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&Options{Writer: &buf, Format: FormatText, Level: slog.LevelWarn}))

	log.Info("hidden")
	require.Zero(t, buf.Len())

	log.Warn("shown", "key", "value")
	require.Contains(t, buf.String(), "msg=shown")
	require.Contains(t, buf.String(), "key=value")
}
