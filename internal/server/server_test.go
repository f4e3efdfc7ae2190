package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/logger"
	"github.com/alnah/go-mjml/internal/server"
)

// Notes:
// - conversions go through real converters unless a test needs a failure mode
// - each server gets its own registry so metrics assertions do not interfere

const document = `<mjml><mj-body><mj-section><mj-column><mj-text>Hello</mj-text></mj-column></mj-section></mj-body></mjml>`

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	res   *mjml.ConvertResult
	err   error
	panic bool
}

func (f *fakeRenderer) Convert(_ context.Context, _ mjml.Input) (*mjml.ConvertResult, error) {
	if f.panic {
		panic("boom")
	}
	return f.res, f.err
}

func newServer(t *testing.T, cfg server.Config, opts ...server.Option) *server.Server {
	t.Helper()
	plain, err := mjml.NewConverter()
	require.NoError(t, err)
	minified, err := mjml.NewConverter(mjml.WithMinify(true))
	require.NoError(t, err)
	return server.New(cfg, plain, minified, opts...)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func renderBody(t *testing.T, source string, minify *bool) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"mjml": source, "minify": minify})
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Config{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(server.RequestIDHeader))
}

func TestRender(t *testing.T) {
	t.Parallel()

	yes, no := true, false

	t.Run("renders with default minify", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, server.Config{Minify: true})
		rec := post(t, srv.Handler(), renderBody(t, document, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, decode(t, rec)["html"], "Hello")
	})

	t.Run("request overrides minify", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, server.Config{Minify: true})
		plain := decode(t, post(t, srv.Handler(), renderBody(t, document, &no)))["html"].(string)
		minified := decode(t, post(t, srv.Handler(), renderBody(t, document, &yes)))["html"].(string)

		assert.Greater(t, len(plain), len(minified))
	})

	t.Run("invalid mjml", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, server.Config{})
		rec := post(t, srv.Handler(), renderBody(t, "<mjml><mj-body><mj-column></mj-column></mj-body></mjml>", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		out := decode(t, rec)
		assert.Equal(t, "invalid mjml", out["message"])
		assert.Contains(t, out["error"], "mj-column")
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"mjml":`},
		{name: "missing mjml", body: `{}`},
		{name: "blank mjml", body: `{"mjml":"   "}`},
		{name: "unknown field", body: `{"mjml":"<mjml></mjml>","theme":"dark"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, server.Config{})
			rec := post(t, srv.Handler(), tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, "invalid request", out["message"])
			assert.NotEmpty(t, out["details"])
		})
	}

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, server.Config{MaxBodyBytes: 64})
		rec := post(t, srv.Handler(), renderBody(t, document, nil))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("internal failure hides details", func(t *testing.T) {
		t.Parallel()

		failing := &fakeRenderer{err: errors.New("disk on fire")}
		srv := server.New(server.Config{}, failing, failing)
		rec := post(t, srv.Handler(), renderBody(t, document, nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk on fire")
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()

		panicking := &fakeRenderer{panic: true}
		srv := server.New(server.Config{}, panicking, panicking)
		rec := post(t, srv.Handler(), renderBody(t, document, nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decode(t, rec)["message"])
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, server.Config{})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/render", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "generated when absent", incoming: "", reused: false},
		{name: "reused when valid", incoming: "abc-123_DEF", reused: true},
		{name: "replaced when invalid", incoming: "bad id!", reused: false},
		{name: "replaced when too long", incoming: strings.Repeat("a", 200), reused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, server.Config{})
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(server.RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			got := rec.Header().Get(server.RequestIDHeader)
			require.NotEmpty(t, got)
			if tt.reused {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithContextExtractors(server.LogExtractor()),
	)
	srv := newServer(t, server.Config{}, server.WithLogger(log))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "req-42")
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "/health", entry["route"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])
	assert.Equal(t, "req-42", entry["request_id"])
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	srv := newServer(t, server.Config{}, server.WithRegistry(reg))

	post(t, srv.Handler(), renderBody(t, document, nil))
	post(t, srv.Handler(), renderBody(t, "<mjml><mj-body><mj-unknown /></mj-body></mjml>", nil))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `mjml_conversions_total{status="ok"} 1`)
	assert.Contains(t, body, `mjml_conversions_total{status="invalid"} 1`)
	assert.Contains(t, body, `mjml_http_requests_total{code="200",route="/render"} 1`)
	assert.Contains(t, body, `mjml_http_requests_total{code="400",route="/render"} 1`)
	assert.Contains(t, body, "mjml_conversion_duration_seconds_count 2")
}

func TestMetrics_UnmatchedRoutes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	srv := newServer(t, server.Config{}, server.WithRegistry(reg))

	for _, path := range []string{"/scan-0", "/scan-1", "/wp-admin/setup.php"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `mjml_http_requests_total{code="404",route="unmatched"} 3`)
	assert.NotContains(t, body, "/scan-")
	assert.NotContains(t, body, "wp-admin")
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func TestServe(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := newServer(t, server.Config{}, server.WithLogger(slog.New(slog.DiscardHandler)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/health", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Config{Addr: "256.0.0.1:bad"})
	err := srv.Run(context.Background())

	assert.ErrorIs(t, err, server.ErrListen)
}
