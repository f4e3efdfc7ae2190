package mjml

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/alnah/go-mjml/internal/ast"
)

// Document is a parsed MJML document, as returned by Converter.Parse.
type Document = ast.Document

// Input contains the markup and per-conversion settings.
type Input struct {
	MJML string // required

	// CSS is added to the document head after the generated styles.
	CSS string

	// BaseURL, when set, resolves relative image sources and link targets.
	// It must be absolute.
	BaseURL string
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML []byte

	// Minified reports whether HTML went through the minifier.
	Minified bool

	// RenderedSize is the byte length before minification.
	RenderedSize int
}

// Message is a rendered message body.
type Message struct {
	Content string
	IsHTML  bool
}

// Font names a web font and the stylesheet that provides it.
type Font struct {
	Name string
	Href string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	breakpoint       string
	keepComments     bool
	fonts            []Font
	language         string
	direction        string
	minify           bool
	markdownMessages bool
	assetPath        string
}

// WithBreakpoint sets the viewport width, in px, above which columns sit
// side by side. An mj-breakpoint in the document takes precedence.
func WithBreakpoint(width string) Option {
	return func(c *Converter) {
		c.cfg.breakpoint = width
	}
}

// WithKeepComments controls whether source comments reach the output.
// Comments are kept by default.
func WithKeepComments(keep bool) Option {
	return func(c *Converter) {
		c.cfg.keepComments = keep
	}
}

// WithFont registers a web font. It is imported only by documents that use
// it in a font-family.
func WithFont(name, href string) Option {
	return func(c *Converter) {
		c.cfg.fonts = append(c.cfg.fonts, Font{Name: name, Href: href})
	}
}

// WithLanguage sets the lang attribute used when the mjml root has none.
func WithLanguage(lang string) Option {
	return func(c *Converter) {
		c.cfg.language = lang
	}
}

// WithDirection sets the dir attribute used when the mjml root has none.
func WithDirection(dir string) Option {
	return func(c *Converter) {
		c.cfg.direction = dir
	}
}

// WithMinify enables minification of the rendered HTML.
func WithMinify(minify bool) Option {
	return func(c *Converter) {
		c.cfg.minify = minify
	}
}

// WithMarkdownMessages makes RenderMessage treat non-MJML content as
// Markdown instead of plain text.
func WithMarkdownMessages(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.markdownMessages = enabled
	}
}

// WithTracer sets the tracer used for stage spans. The default is the
// global provider's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Converter) {
		c.tracer = tracer
	}
}

// WithAssetPath sets a directory whose styles/ folder overrides the
// embedded skeleton stylesheets (reset.css, outlook.css).
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
