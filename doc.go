// Package mjml compiles MJML email markup into HTML that renders
// consistently across mail clients.
//
// # Quick Start
//
// The one-call form parses, renders and optionally minifies:
//
//	html, err := mjml.ToHTML(source, true)
//	if err != nil {
//	    log.Fatal(err) // the message carries line and column
//	}
//
// # Converter
//
// A Converter holds render settings and is safe for concurrent use:
//
//	conv, err := mjml.NewConverter(
//	    mjml.WithBreakpoint("520px"),
//	    mjml.WithFont("Inter", "https://fonts.example.com/inter.css"),
//	    mjml.WithMinify(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, mjml.Input{
//	    MJML:    source,
//	    CSS:     ".footer { color: #999; }",
//	    BaseURL: "https://cdn.example.com/mail/",
//	})
//
// # Conversion Pipeline
//
//  1. Source preprocessing (byte order mark, line endings)
//  2. Parsing into a document tree, with positional errors
//  3. Rendering to table-based HTML with Outlook conditional blocks
//  4. Extra CSS injection and relative URL rewriting
//  5. Optional minification
//
// The context is checked between stages. Parsing and rendering themselves
// are synchronous and do no I/O.
//
// # Errors
//
// Failures are reported as *Error, whose Kind is one of ErrParse, ErrRender
// or ErrEncoding. The stage error underneath is a *ParseError, *RenderError
// or *EncodingError:
//
//	var perr *mjml.ParseError
//	if errors.As(err, &perr) {
//	    fmt.Println(perr.Line, perr.Column, perr.Suggestion)
//	}
//
// # Messages
//
// RenderMessage converts content only when it is a whole MJML document, and
// otherwise returns it as plain text, or renders it from Markdown when
// WithMarkdownMessages is enabled.
package mjml
