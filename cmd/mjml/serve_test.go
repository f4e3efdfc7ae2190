package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alnah/go-mjml/internal/config"
	"github.com/alnah/go-mjml/internal/logger"
)

func TestBuildServer(t *testing.T) {
	t.Parallel()

	t.Run("precedence flags over env over config", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeFile(t, t.TempDir(), "serve.yaml", "server:\n  addr: \":7000\"\nlog:\n  level: warn\n")
		env := newTestEnv(t, "", "MJML_ADDR=:7001", "MJML_LOG_FORMAT=json")

		_, cfg, err := buildServer([]string{"-c", cfgPath, "--addr", ":7002"}, env.Environ(), env.Environment)
		if err != nil {
			t.Fatalf("buildServer() error = %v", err)
		}
		if cfg.Server.Addr != ":7002" {
			t.Errorf("Addr = %q, want flag value", cfg.Server.Addr)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %q, want env value", cfg.Log.Format)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q, want config value", cfg.Log.Level)
		}
	})

	t.Run("serves renders", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		srv, _, err := buildServer(nil, env.Environ(), env.Environment)
		if err != nil {
			t.Fatalf("buildServer() error = %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"mjml":"<mjml><mj-body><mj-section><mj-column><mj-text>Hi</mj-text></mj-column></mj-section></mj-body></mjml>"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(env.stderr.String(), `msg=request`) {
			t.Errorf("access log should go to stderr, got %q", env.stderr.String())
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "", "MJML_LOG_LEVEL=loud")
		_, _, err := buildServer(nil, env.Environ(), env.Environment)
		if !errors.Is(err, logger.ErrInvalidLevel) {
			t.Errorf("error = %v, want ErrInvalidLevel", err)
		}
	})

	t.Run("missing config names the user config path", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		_, _, err := buildServer([]string{"-c", "surely-missing-mjml-profile"}, env.Environ(), env.Environment)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		var he *hintedError
		if !errors.As(err, &he) || !strings.Contains(he.hint, "--config") {
			t.Errorf("error should carry a config hint, got %v", err)
		}
	})
}

func TestMergeServeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeServeFlags(&serveFlags{
		common:    commonFlags{verbose: true},
		render:    renderFlags{breakpoint: "600px", noComments: true},
		logFormat: "json",
	}, cfg)

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, --verbose should select debug", cfg.Log.Level)
	}
	if cfg.Render.Breakpoint != "600px" || cfg.Render.KeepsComments() {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	env := &Environment{Stderr: &buf}
	log, err := newLogger(config.LogConfig{Level: "info", Format: "json"}, env)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	log.Info("ready")

	for _, want := range []string{`"msg":"ready"`, `"service":"mjml"`, `"version":"dev"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log line should contain %s, got %q", want, buf.String())
		}
	}
}
