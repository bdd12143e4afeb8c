package myhttp_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"terrain-differ/internal/myhttp"
)

func newTestHistogram(t *testing.T) metric.Int64Histogram {
	t.Helper()

	histogram, err := noop.NewMeterProvider().Meter("test").Int64Histogram("http_requests_duration_micro_seconds")
	if err != nil {
		t.Fatal(err)
	}
	return histogram
}

func TestMyRouter_HandleFuncWithMiddleware(t *testing.T) {
	t.Run("SuccessPassesThrough", func(t *testing.T) {
		mux := myhttp.NewServerMux(slog.New(slog.NewJSONHandler(io.Discard, nil)), newTestHistogram(t))
		mux.HandleFuncWithMiddleware("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		recorder := httptest.NewRecorder()
		mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if recorder.Code != http.StatusOK {
			t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
		}
	})
	t.Run("PanicReturnsInternalServerError", func(t *testing.T) {
		var buffer bytes.Buffer
		mux := myhttp.NewServerMux(slog.New(slog.NewJSONHandler(&buffer, nil)), newTestHistogram(t))
		mux.HandleFuncWithMiddleware("GET /diff", func(w http.ResponseWriter, r *http.Request) {
			panic("broken diff handler")
		})

		recorder := httptest.NewRecorder()
		mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/diff", nil))

		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("expected %d, got %d", http.StatusInternalServerError, recorder.Code)
		}
		if !strings.Contains(buffer.String(), "broken diff handler") {
			t.Errorf("expected panic message in log output, got: %s", buffer.String())
		}
	})
	t.Run("PanicWithNonStringValue", func(t *testing.T) {
		var buffer bytes.Buffer
		mux := myhttp.NewServerMux(slog.New(slog.NewJSONHandler(&buffer, nil)), newTestHistogram(t))
		mux.HandleFuncWithMiddleware("GET /diff", func(w http.ResponseWriter, r *http.Request) {
			panic(errors.New("decode failed"))
		})

		recorder := httptest.NewRecorder()
		mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/diff", nil))

		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("expected %d, got %d", http.StatusInternalServerError, recorder.Code)
		}
		if !strings.Contains(buffer.String(), "decode failed") {
			t.Errorf("expected panic message in log output, got: %s", buffer.String())
		}
	})
	t.Run("DefaultLoggerUntouched", func(t *testing.T) {
		before := slog.Default()

		mux := myhttp.NewServerMux(slog.New(slog.NewJSONHandler(io.Discard, nil)), newTestHistogram(t))
		mux.HandleFuncWithMiddleware("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if slog.Default() != before {
			t.Error("serving a request replaced the process default logger")
		}
	})
}
