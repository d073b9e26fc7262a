package extract

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// HTMLExtractor strips markup from HTML documents and returns the readable
// text as a single item. The <title> tag, when present, becomes the title.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

var (
	htmlTitleTag    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	htmlScriptTag   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlStyleTag    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlNoscriptTag = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	htmlHeadTag     = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments    = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlBlockClose  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	htmlBlockOpen   = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	htmlBreakTags   = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	htmlAllTags     = regexp.MustCompile(`<[^>]+>`)
	htmlMultiSpace  = regexp.MustCompile(`[ \t]+`)
	htmlMultiLine   = regexp.MustCompile(`\n{3,}`)
)

// Extract strips tags and returns plain text with block structure preserved
// as newlines.
func (e *HTMLExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	raw := string(data)

	title := ""
	if m := htmlTitleTag.FindStringSubmatch(raw); len(m) > 1 {
		title = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if title == "" {
		title = titleFromName(name)
	}

	text := stripHTML(raw)
	if text == "" {
		return nil, nil
	}

	return []Item{{
		Text: text,
		Metadata: map[string]string{
			core.MetaTitle: title,
		},
	}}, nil
}

// stripHTML removes script, style and head sections, converts block element
// boundaries to newlines, drops the remaining tags and unescapes entities.
func stripHTML(content string) string {
	content = htmlScriptTag.ReplaceAllString(content, "")
	content = htmlStyleTag.ReplaceAllString(content, "")
	content = htmlNoscriptTag.ReplaceAllString(content, "")
	content = htmlHeadTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = htmlBlockOpen.ReplaceAllString(content, "\n")
	content = htmlBlockClose.ReplaceAllString(content, "\n")
	content = htmlBreakTags.ReplaceAllString(content, "\n")
	content = htmlAllTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = htmlMultiSpace.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	content = strings.Join(lines, "\n")
	content = htmlMultiLine.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
