package templates

import (
	"bytes"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	// Raw HTML in sources is dropped by goldmark; the policy strips
	// anything unsafe that Markdown itself can express.
	descriptionPolicy = newDescriptionPolicy()
)

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// RenderMarkdown converts a post description to sanitized HTML.
func RenderMarkdown(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return descriptionPolicy.Sanitize(buf.String()), nil
}

// Markdown renders source as sanitized HTML.
func Markdown(source string) templ.Component {
	rendered, err := RenderMarkdown(source)
	return templ.Raw(rendered, err)
}
