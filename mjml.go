package mjml

import (
	"context"
	"sync"
)

var (
	plainConverter    = sync.OnceValues(func() (*Converter, error) { return NewConverter() })
	minifiedConverter = sync.OnceValues(func() (*Converter, error) { return NewConverter(WithMinify(true)) })
)

// ToHTML converts MJML markup to HTML with default settings, minifying the
// result when minify is true. Every failure is returned as a single error
// whose message describes the problem and, when known, its location.
func ToHTML(input string, minify bool) (string, error) {
	get := plainConverter
	if minify {
		get = minifiedConverter
	}
	conv, err := get()
	if err != nil {
		return "", err
	}

	res, err := conv.Convert(context.Background(), Input{MJML: input})
	if err != nil {
		return "", err
	}
	return string(res.HTML), nil
}
