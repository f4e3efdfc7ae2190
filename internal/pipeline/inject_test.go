package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "no escape needed", input: "p { color: red; }", want: "p { color: red; }"},
		{name: "escapes style close", input: "</style>", want: `<\/style>`},
		{name: "multiple occurrences", input: "</a></b>", want: `<\/a><\/b>`},
		{name: "mixed case", input: "</sTyLe>", want: `<\/sTyLe>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.want {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCSSInjection_InjectCSS(t *testing.T) {
	t.Parallel()

	const css = ".x{color:red}"
	const block = `<style type="text/css">.x{color:red}</style>` + "\n"

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before head close",
			html: "<html><head><title>t</title></head><body></body></html>",
			css:  css,
			want: "<html><head><title>t</title>" + block + "</head><body></body></html>",
		},
		{
			name: "uppercase head",
			html: "<HTML><HEAD></HEAD></HTML>",
			css:  css,
			want: "<HTML><HEAD>" + block + "</HEAD></HTML>",
		},
		{
			name: "after body open without head",
			html: `<body style="margin:0"><p>x</p></body>`,
			css:  css,
			want: `<body style="margin:0">` + block + "<p>x</p></body>",
		},
		{
			name: "prepended to fragment",
			html: "<p>x</p>",
			css:  css,
			want: block + "<p>x</p>",
		},
		{
			name: "empty css is a no-op",
			html: "<head></head>",
			css:  "",
			want: "<head></head>",
		},
		{
			name: "sanitized",
			html: "<head></head>",
			css:  "</style><script>",
			want: `<head><style type="text/css"><\/style><script></style>` + "\n</head>",
		},
	}

	inj := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := inj.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCSSInjection_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := (&CSSInjection{}).InjectCSS(ctx, "<head></head>", "p{}")
	if strings.Contains(got, "<style") {
		t.Errorf("InjectCSS() with cancelled context injected a style block: %q", got)
	}
}
