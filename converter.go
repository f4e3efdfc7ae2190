package mjml

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alnah/go-mjml/internal/assets"
	"github.com/alnah/go-mjml/internal/css"
	"github.com/alnah/go-mjml/internal/parser"
	"github.com/alnah/go-mjml/internal/pipeline"
	"github.com/alnah/go-mjml/internal/render"
)

const tracerName = "github.com/alnah/go-mjml"

// Converter orchestrates the MJML to HTML pipeline. It holds no per-call
// state and is safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	renderOpts   render.Options
	tracer       trace.Tracer
	preprocessor pipeline.Preprocessor
	cssInjector  pipeline.CSSInjector
	minifier     pipeline.Minifier
	markdown     pipeline.MarkdownConverter
}

// NewConverter creates a Converter. Options are validated here so that
// Convert only fails on the markup it is given.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			breakpoint:   render.DefaultBreakpoint,
			keepComments: true,
			language:     render.DefaultLanguage,
			direction:    render.DefaultDirection,
		},
		preprocessor: &pipeline.SourcePreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
		minifier:     pipeline.NewHTMLMinifier(),
		markdown:     pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}

	renderOpts, err := c.cfg.renderOptions()
	if err != nil {
		return nil, err
	}
	c.renderOpts = renderOpts
	return c, nil
}

// renderOptions validates the configuration and builds render options.
func (cfg converterConfig) renderOptions() (render.Options, error) {
	bp, err := css.ParseLength(cfg.breakpoint)
	if err != nil || bp.IsPercent() {
		return render.Options{}, fmt.Errorf("%w: breakpoint %q must be a pixel length", ErrInvalidOption, cfg.breakpoint)
	}

	fonts := render.DefaultFonts()
	for _, f := range cfg.fonts {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Href) == "" {
			return render.Options{}, fmt.Errorf("%w: font needs a name and an href", ErrInvalidOption)
		}
		fonts = append(fonts, render.Font{Name: f.Name, Href: f.Href})
	}

	opts := render.Options{
		Breakpoint:   cfg.breakpoint,
		KeepComments: cfg.keepComments,
		Fonts:        fonts,
		Language:     cfg.language,
		Direction:    cfg.direction,
	}

	if cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(cfg.assetPath)
		if err != nil {
			return render.Options{}, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		opts.Assets = resolver
	}
	return opts, nil
}

// Convert runs the full pipeline. Stage failures are returned as *Error.
// Markup or CSS that is not valid UTF-8 fails with ErrEncoding whether or
// not the output is minified.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	for _, text := range []string{input.MJML, input.CSS} {
		if err := pipeline.ValidateUTF8(text); err != nil {
			return nil, classify(err)
		}
	}

	doc, err := c.Parse(ctx, input.MJML)
	if err != nil {
		return nil, err
	}

	htmlContent, err := c.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	if input.CSS != "" {
		htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, input.CSS)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if input.BaseURL != "" {
		htmlContent, err = pipeline.RewriteRelativeURLs(htmlContent, input.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("rewriting URLs: %w", err)
		}
	}

	res := &ConvertResult{RenderedSize: len(htmlContent)}
	if c.cfg.minify {
		htmlContent, err = c.minify(ctx, htmlContent)
		if err != nil {
			return nil, err
		}
		res.Minified = true
	}
	res.HTML = []byte(htmlContent)
	return res, nil
}

// Parse preprocesses and parses markup into a document tree.
func (c *Converter) Parse(ctx context.Context, source string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source = c.preprocessor.Preprocess(ctx, source)

	var doc *Document
	err := c.stage(ctx, "parse", len(source), func() error {
		var err error
		doc, err = parser.Parse(source)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return doc, nil
}

// Render renders a parsed document to HTML.
func (c *Converter) Render(ctx context.Context, doc *Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out string
	err := c.stage(ctx, "render", 0, func() error {
		var err error
		out, err = render.Render(doc, c.renderOpts)
		return err
	})
	if err != nil {
		return "", classify(err)
	}
	return out, nil
}

func (c *Converter) minify(ctx context.Context, htmlContent string) (string, error) {
	var out string
	err := c.stage(ctx, "minify", len(htmlContent), func() error {
		var err error
		out, err = c.minifier.Minify(ctx, htmlContent)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if classified := classify(err); classified != err {
			return "", classified
		}
		return "", fmt.Errorf("minifying: %w", err)
	}
	return out, nil
}

// stage runs fn inside a span named after the stage.
func (c *Converter) stage(ctx context.Context, name string, inputBytes int, fn func() error) error {
	_, span := c.tracer.Start(ctx, name)
	defer span.End()
	if inputBytes > 0 {
		span.SetAttributes(attribute.Int("mjml.input_bytes", inputBytes))
	}

	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
