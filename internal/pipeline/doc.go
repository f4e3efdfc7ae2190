// Package pipeline holds the stages that run around parsing and rendering:
//   - source preprocessing (byte order mark, line endings)
//   - CSS injection into the rendered document
//   - rewriting relative image and link URLs against a base URL
//   - HTML minification via tdewolff/minify
//   - Markdown to HTML conversion via Goldmark, for plain-text messages
//
// Parsing and rendering live in internal/parser and internal/render. Each
// stage here is a small interface with one implementation so the root
// converter can swap them in tests.
package pipeline
