package main

// Notes:
// - runMain: we test exit codes and output for each command. Conversion
//   details are covered in convert_test.go and in the library tests.
// - serve is tested through buildServer; Run itself is covered in
//   internal/server.

import (
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage and exits with ExitUsage",
			args:         []string{"mjml"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: mjml"},
		},
		{
			name:         "version command exits 0",
			args:         []string{"mjml", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"mjml dev"},
		},
		{
			name:         "help command exits 0",
			args:         []string{"mjml", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mjml", "Commands:"},
		},
		{
			name:         "help convert shows convert help",
			args:         []string{"mjml", "help", "convert"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mjml convert", "MJML_WORKERS"},
		},
		{
			name:         "help serve shows serve help",
			args:         []string{"mjml", "help", "serve"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mjml serve", "/metrics"},
		},
		{
			name:         "convert --help shows convert help",
			args:         []string{"mjml", "convert", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mjml convert"},
		},
		{
			name:         "unknown command suggests the closest one",
			args:         []string{"mjml", "convrt"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: convrt", "did you mean 'convert'?"},
		},
		{
			name:         "help for unknown command",
			args:         []string{"mjml", "help", "nope"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: nope"},
		},
		{
			name:         "unknown flag",
			args:         []string{"mjml", "convert", "--nope"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid usage"},
		},
		{
			name:         "convert without input",
			args:         []string{"mjml", "convert"},
			wantCode:     ExitIO,
			wantInStderr: []string{"no input specified", "hint:"},
		},
		{
			name:         "missing input file",
			args:         []string{"mjml", "convert", "missing.mjml"},
			wantCode:     ExitIO,
			wantInStderr: []string{"missing.mjml"},
		},
		{
			name:         "negative workers",
			args:         []string{"mjml", "convert", "-w", "-1", "x.mjml"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid worker count"},
		},
		{
			name:         "invalid breakpoint",
			args:         []string{"mjml", "convert", "--breakpoint", "wide", "-"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"breakpoint"},
		},
		{
			name:         "serve rejects arguments",
			args:         []string{"mjml", "serve", "extra"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"serve takes no arguments"},
		},
		{
			name:         "config without subcommand shows usage",
			args:         []string{"mjml", "config"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mjml config init"},
		},
		{
			name:         "config with unknown subcommand",
			args:         []string{"mjml", "config", "drop"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown config subcommand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, "")
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, env.stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(env.stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, env.stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(env.stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, env.stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Stdin - Conversion through standard streams
// ---------------------------------------------------------------------------

func TestRunMain_Stdin(t *testing.T) {
	t.Parallel()

	t.Run("valid document goes to stdout", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, validMJML)
		code := runMain([]string{"mjml", "convert", "-"}, env.Environment)

		if code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr.String())
		}
		if !strings.HasPrefix(env.stdout.String(), "<!doctype html>") {
			t.Errorf("stdout should start with the doctype, got %.40q", env.stdout.String())
		}
		if !strings.Contains(env.stdout.String(), "Hello") {
			t.Error("stdout should contain the text")
		}
	})

	t.Run("parse error exits with ExitUsage and a hint", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, invalidMJML)
		code := runMain([]string{"mjml", "convert", "-"}, env.Environment)

		if code != ExitUsage {
			t.Fatalf("exit = %d, want %d", code, ExitUsage)
		}
		stderr := env.stderr.String()
		if !strings.Contains(stderr, "line 1, column 16") {
			t.Errorf("stderr should locate the error, got %q", stderr)
		}
		if !strings.Contains(stderr, "hint: <mj-column> can be placed in") {
			t.Errorf("stderr should carry a nesting hint, got %q", stderr)
		}
		if env.stdout.Len() != 0 {
			t.Errorf("stdout should be empty on error, got %q", env.stdout.String())
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "email.html")
		env := newTestEnv(t, validMJML)
		code := runMain([]string{"mjml", "convert", "-", "-o", out}, env.Environment)

		if code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr.String())
		}
		if !strings.Contains(readFile(t, out), "Hello") {
			t.Error("output file should contain the text")
		}
	})

	t.Run("env minify shrinks output", func(t *testing.T) {
		t.Parallel()

		plain := newTestEnv(t, validMJML)
		minified := newTestEnv(t, validMJML, "MJML_MINIFY=true")
		runMain([]string{"mjml", "convert", "-"}, plain.Environment)
		runMain([]string{"mjml", "convert", "-"}, minified.Environment)

		if minified.stdout.Len() >= plain.stdout.Len() {
			t.Errorf("minified = %d bytes, plain = %d bytes", minified.stdout.Len(), plain.stdout.Len())
		}
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Parallel()

		plain := newTestEnv(t, validMJML)
		overridden := newTestEnv(t, validMJML, "MJML_MINIFY=true")
		runMain([]string{"mjml", "convert", "-"}, plain.Environment)
		runMain([]string{"mjml", "convert", "--minify=false", "-"}, overridden.Environment)

		if overridden.stdout.String() != plain.stdout.String() {
			t.Error("--minify=false should override MJML_MINIFY=true")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_ConfigInit - Default config file generation
// ---------------------------------------------------------------------------

func TestRunMain_ConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "mjml.yaml")

	env := newTestEnv(t, "")
	if code := runMain([]string{"mjml", "config", "init", path}, env.Environment); code != ExitSuccess {
		t.Fatalf("first init exit = %d, stderr: %s", code, env.stderr.String())
	}
	if !strings.Contains(readFile(t, path), "8007") {
		t.Errorf("config should contain the default address:\n%s", readFile(t, path))
	}

	env = newTestEnv(t, "")
	if code := runMain([]string{"mjml", "config", "init", path}, env.Environment); code != ExitIO {
		t.Errorf("second init exit = %d, want %d", code, ExitIO)
	}

	env = newTestEnv(t, "")
	if code := runMain([]string{"mjml", "config", "init", "--force", path}, env.Environment); code != ExitSuccess {
		t.Errorf("forced init exit = %d, stderr: %s", code, env.stderr.String())
	}

	// The generated file is a valid config.
	env = newTestEnv(t, validMJML)
	if code := runMain([]string{"mjml", "convert", "-c", path, "-"}, env.Environment); code != ExitSuccess {
		t.Errorf("convert with generated config exit = %d, stderr: %s", code, env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"mjml", "convert", "-v", "a.mjml"}, true},
		{[]string{"mjml", "convert", "--verbose"}, true},
		{[]string{"mjml", "convert", "a.mjml"}, false},
		{[]string{"mjml", "convert", "--", "-v"}, false},
		{[]string{"mjml"}, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
