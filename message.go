package mjml

import (
	"context"
	"fmt"
	"strings"
)

// markdownLayout wraps a Markdown fragment in a single-column email.
const markdownLayout = `<mjml>
  <mj-body>
    <mj-section>
      <mj-column>
        <mj-text line-height="1.5">%s</mj-text>
      </mj-column>
    </mj-section>
  </mj-body>
</mjml>`

// IsMJML reports whether content is a whole MJML document: once trimmed it
// starts with <mjml> and ends with </mjml>.
func IsMJML(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "<mjml>") && strings.HasSuffix(trimmed, "</mjml>")
}

// RenderMessage renders a message body. MJML documents are converted without
// minification. Anything else is returned as plain text, or rendered from
// Markdown when the converter was built WithMarkdownMessages(true).
func (c *Converter) RenderMessage(ctx context.Context, content string) (Message, error) {
	source := content
	if !IsMJML(content) {
		if !c.cfg.markdownMessages {
			return Message{Content: content}, nil
		}
		fragment, err := c.markdown.ToHTML(ctx, content)
		if err != nil {
			return Message{}, fmt.Errorf("rendering markdown: %w", err)
		}
		source = fmt.Sprintf(markdownLayout, fragment)
	}

	doc, err := c.Parse(ctx, source)
	if err != nil {
		return Message{}, err
	}
	htmlContent, err := c.Render(ctx, doc)
	if err != nil {
		return Message{}, err
	}
	return Message{Content: htmlContent, IsHTML: true}, nil
}
