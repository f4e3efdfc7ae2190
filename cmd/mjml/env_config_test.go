package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mjml/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - MJML_* parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("all variables", func(t *testing.T) {
		t.Parallel()

		got, err := loadEnvConfig([]string{
			"MJML_CONFIG=team",
			"MJML_BREAKPOINT=600px",
			"MJML_MINIFY=true",
			"MJML_WORKERS=3",
			"MJML_ADDR=:9000",
			"MJML_LOG_LEVEL=debug",
			"MJML_LOG_FORMAT=json",
			"PATH=/usr/bin",
		})
		if err != nil {
			t.Fatalf("loadEnvConfig() error = %v", err)
		}
		if got.ConfigPath != "team" || got.Breakpoint != "600px" || got.Addr != ":9000" {
			t.Errorf("strings = %+v", got)
		}
		if got.Minify == nil || !*got.Minify {
			t.Errorf("Minify = %v, want true", got.Minify)
		}
		if got.Workers != 3 {
			t.Errorf("Workers = %d, want 3", got.Workers)
		}
		if got.LogLevel != "debug" || got.LogFormat != "json" {
			t.Errorf("log = %q/%q", got.LogLevel, got.LogFormat)
		}
	})

	t.Run("empty environment", func(t *testing.T) {
		t.Parallel()

		got, err := loadEnvConfig(nil)
		if err != nil {
			t.Fatalf("loadEnvConfig() error = %v", err)
		}
		if got.Minify != nil {
			t.Error("Minify should stay nil when unset")
		}
	})

	tests := []struct {
		name    string
		environ []string
	}{
		{"bad bool", []string{"MJML_MINIFY=maybe"}},
		{"bad int", []string{"MJML_WORKERS=many"}},
		{"negative workers", []string{"MJML_WORKERS=-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadEnvConfig(tt.environ)
			if !errors.Is(err, ErrInvalidEnv) {
				t.Errorf("error = %v, want ErrInvalidEnv", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MJML_MINFY=true",
		"MJML_MINIFY=true",
		"MJML_ADR=:80",
		"HOME=/root",
	})

	out := buf.String()
	for _, want := range []string{"MJML_ADR", "MJML_MINFY"} {
		if !strings.Contains(out, want) {
			t.Errorf("warnings should mention %s, got %q", want, out)
		}
	}
	if strings.Contains(out, "MJML_MINIFY ") || strings.Contains(out, "HOME") {
		t.Errorf("warnings should only list unknown MJML_ variables, got %q", out)
	}
	if strings.Index(out, "MJML_ADR") > strings.Index(out, "MJML_MINFY") {
		t.Error("warnings should be sorted")
	}
}

func TestKnownEnvVars(t *testing.T) {
	t.Parallel()

	known := knownEnvVars()
	for _, name := range []string{
		"MJML_CONFIG", "MJML_BREAKPOINT", "MJML_MINIFY", "MJML_WORKERS",
		"MJML_ADDR", "MJML_LOG_LEVEL", "MJML_LOG_FORMAT",
	} {
		if !known[name] {
			t.Errorf("%s should be known", name)
		}
	}
	if len(known) != 7 {
		t.Errorf("len(knownEnvVars()) = %d, want 7", len(known))
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides config
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	minify := true
	cfg := config.DefaultConfig()
	cfg.Render.Breakpoint = "320px"
	cfg.Server.Addr = ":1234"

	applyEnvConfig(&envConfig{
		Breakpoint: "600px",
		Minify:     &minify,
		LogFormat:  "json",
	}, cfg)

	if cfg.Render.Breakpoint != "600px" {
		t.Errorf("Breakpoint = %q, want env value", cfg.Render.Breakpoint)
	}
	if !cfg.Output.Minify || !cfg.Server.Minifies() {
		t.Error("MJML_MINIFY should apply to files and the service")
	}
	if cfg.Server.Addr != ":1234" {
		t.Errorf("Addr = %q, unset env should keep config", cfg.Server.Addr)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}
