package pipeline

import (
	"context"
	"regexp"
	"strings"
)

const byteOrderMark = "\ufeff"

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocessor normalizes source text before parsing.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// SourcePreprocessor strips a leading byte order mark and converts CRLF and
// CR line endings to LF so positions in errors count lines the way editors do.
type SourcePreprocessor struct{}

// Preprocess applies all normalizations.
func (p *SourcePreprocessor) Preprocess(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = strings.TrimPrefix(content, byteOrderMark)
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Compile-time interface check.
var _ Preprocessor = (*SourcePreprocessor)(nil)
