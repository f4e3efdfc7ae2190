package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleDocument = `<!doctype html>
<html lang="und" dir="auto">
  <head>
    <title></title>
    <style type="text/css">
      #outlook a { padding: 0; }
      body { margin: 0; padding: 0; }
    </style>
    <!--[if mso]>
    <noscript>
    <xml>
    <o:OfficeDocumentSettings>
    <o:AllowPNG/>
    <o:PixelsPerInch>96</o:PixelsPerInch>
    </o:OfficeDocumentSettings>
    </xml>
    </noscript>
    <![endif]-->
  </head>
  <body style="word-spacing:normal;">
    <div>
      <!--[if mso | IE]><table align="center" border="0" cellpadding="0" cellspacing="0" ><tr><td><![endif]-->
      <table border="0" cellpadding="0" cellspacing="0" role="presentation">
        <tbody>
          <tr>
            <td align="left">
              <div>Hello   world</div>
            </td>
          </tr>
        </tbody>
      </table>
      <!--[if mso | IE]></td></tr></table><![endif]-->
    </div>
  </body>
</html>
`

// ----------------------------------------------------------------------------
// HTMLMinifier
// ----------------------------------------------------------------------------

func TestHTMLMinifier_Shrinks(t *testing.T) {
	t.Parallel()

	got, err := NewHTMLMinifier().Minify(context.Background(), sampleDocument)
	if err != nil {
		t.Fatalf("Minify() unexpected error: %v", err)
	}
	if len(got) >= len(sampleDocument) {
		t.Errorf("Minify() length = %d, want < %d", len(got), len(sampleDocument))
	}
}

func TestHTMLMinifier_KeepsStructure(t *testing.T) {
	t.Parallel()

	got, err := NewHTMLMinifier().Minify(context.Background(), sampleDocument)
	if err != nil {
		t.Fatalf("Minify() unexpected error: %v", err)
	}

	for _, tag := range []string{"</td>", "</tr>", "</tbody>", "</table>", "</div>", "</body>", "</html>", "</head>"} {
		want := strings.Count(sampleDocument, tag)
		if n := strings.Count(got, tag); n != want {
			t.Errorf("count(%s) = %d, want %d", tag, n, want)
		}
	}
	for _, s := range []string{
		"[if mso | IE]", "<![endif]", "<html", "<head", "<body", `role="presentation"`,
		"<o:OfficeDocumentSettings>", "<o:AllowPNG/>", "</o:PixelsPerInch>", "</o:OfficeDocumentSettings>",
	} {
		if !strings.Contains(got, s) {
			t.Errorf("Minify() output missing %q:\n%s", s, got)
		}
	}
}

func TestProtectConditionals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantBlocks int
	}{
		{
			name:       "no conditionals",
			input:      "<p>a</p>",
			wantBlocks: 0,
		},
		{
			name:       "hidden block",
			input:      "<div><!--[if mso]><o:AllowPNG/><![endif]--></div>",
			wantBlocks: 1,
		},
		{
			name:       "revealed opener stays in the document",
			input:      "<!--[if !mso]><!--><meta charset=\"utf-8\"><!--<![endif]--><!--[if mso]><b>x</b><![endif]-->",
			wantBlocks: 1,
		},
		{
			name:       "placeholder text already present",
			input:      "<p>mjmlconditional0x</p><!--[if mso]><X/><![endif]-->",
			wantBlocks: 1,
		},
		{
			name:       "unterminated block",
			input:      "<!--[if mso]><b>x</b>",
			wantBlocks: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			protected, blocks := protectConditionals(tt.input)
			if len(blocks.bodies) != tt.wantBlocks {
				t.Fatalf("protectConditionals() blocks = %d, want %d", len(blocks.bodies), tt.wantBlocks)
			}
			for _, body := range blocks.bodies {
				if strings.Contains(protected, body) {
					t.Errorf("protected document still contains %q", body)
				}
			}
			if got := restoreConditionals(protected, blocks); got != tt.input {
				t.Errorf("restoreConditionals() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestHTMLMinifier_NeverGrows(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"<p>a</p>",
		"<b>x</b>",
		sampleDocument,
	}

	m := NewHTMLMinifier()
	for _, in := range inputs {
		got, err := m.Minify(context.Background(), in)
		if err != nil {
			t.Fatalf("Minify(%q) unexpected error: %v", in, err)
		}
		if len(got) > len(in) {
			t.Errorf("Minify(%q) grew to %q", in, got)
		}
	}
}

func TestHTMLMinifier_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTMLMinifier().Minify(ctx, sampleDocument)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Minify() error = %v, want context.Canceled", err)
	}
}

// ----------------------------------------------------------------------------
// Encoding
// ----------------------------------------------------------------------------

func TestCheckUTF8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantOffset int
		wantErr    bool
	}{
		{name: "ascii", input: "abc"},
		{name: "multibyte", input: "héllo ✓"},
		{name: "replacement rune is valid", input: "a\uFFFDb"},
		{name: "invalid byte", input: "ab\xffc", wantOffset: 2, wantErr: true},
		{name: "truncated sequence", input: "é\xe2\x9c", wantOffset: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateUTF8(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateUTF8() unexpected error: %v", err)
				}
				return
			}
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("ValidateUTF8() error = %v, want *EncodingError", err)
			}
			if encErr.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", encErr.Offset, tt.wantOffset)
			}
			if !errors.Is(err, ErrInvalidUTF8) {
				t.Error("EncodingError should unwrap to ErrInvalidUTF8")
			}
		})
	}
}
