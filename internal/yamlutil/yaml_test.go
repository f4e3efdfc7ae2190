package yamlutil_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mjml/internal/yamlutil"
)

type fontEntry struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

type testConfig struct {
	Breakpoint string        `yaml:"breakpoint"`
	Minify     bool          `yaml:"minify"`
	Timeout    time.Duration `yaml:"timeout"`
	Fonts      []fontEntry   `yaml:"fonts"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Strict decoding into structs
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		dest    any
		wantErr error
		errText string
	}{
		{
			name: "valid",
			data: "breakpoint: 480px\nminify: true\ntimeout: 5s\nfonts:\n  - name: Inter\n    href: https://f.test/inter.css\n",
			dest: &testConfig{},
		},
		{
			name:    "empty data",
			data:    "",
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "whitespace only",
			data:    "  \n\n",
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    "minify: true",
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "unknown field",
			data:    "breakpoint: 480px\nminfy: true\n",
			dest:    &testConfig{},
			errText: "minfy",
		},
		{
			name:    "type mismatch",
			data:    "minify: [1, 2]\n",
			dest:    &testConfig{},
			errText: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict([]byte(tt.data), tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("UnmarshalStrict() error = %v, want mention of %q", err, tt.errText)
				}
			case err != nil:
				t.Errorf("UnmarshalStrict() unexpected error: %v", err)
			}
		})
	}
}

func TestUnmarshalStrict_Values(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	data := "breakpoint: 520px\nminify: true\ntimeout: 1m30s\nfonts:\n  - name: Inter\n    href: https://f.test/inter.css\n"
	if err := yamlutil.UnmarshalStrict([]byte(data), &cfg); err != nil {
		t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
	}
	if cfg.Breakpoint != "520px" || !cfg.Minify {
		t.Errorf("got %+v", cfg)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 1m30s", cfg.Timeout)
	}
	if len(cfg.Fonts) != 1 || cfg.Fonts[0].Name != "Inter" {
		t.Errorf("Fonts = %+v", cfg.Fonts)
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := "breakpoint: " + strings.Repeat("x", yamlutil.MaxInputSize) + "\n"
	err := yamlutil.UnmarshalStrict([]byte(data), &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Round trip through strict decoding
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	in := testConfig{Breakpoint: "480px", Minify: true, Fonts: []fontEntry{{Name: "Inter", Href: "https://f.test/i.css"}}}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "breakpoint: 480px") {
		t.Errorf("Marshal() = %s", data)
	}

	var out testConfig
	if err := yamlutil.UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("UnmarshalStrict(Marshal()) unexpected error: %v", err)
	}
	if out.Breakpoint != in.Breakpoint || out.Minify != in.Minify || len(out.Fonts) != 1 {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
