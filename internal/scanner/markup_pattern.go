package scanner

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagRe       = regexp.MustCompile(`(?is)<(svg|rect|polygon|path|line|polyline|text)\b([^>]*?)(/?)>`)
	attrRe      = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	textCloseRe = regexp.MustCompile(`(?i)</text\s*>`)
	anyTagRe    = regexp.MustCompile(`<[^>]*>`)
	commentRe   = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// patternExtractor finds elements by matching tags in the raw text. It does
// not build a tree, so malformed nesting goes unnoticed and attribute values
// containing '>' are cut short.
type patternExtractor struct{}

func (patternExtractor) Name() string { return string(MarkupPattern) }

func (patternExtractor) Extract(markup string) (*Document, error) {
	markup = commentRe.ReplaceAllString(markup, "")
	matches := tagRe.FindAllStringSubmatchIndex(markup, -1)

	out := &Document{}
	foundRoot := false
	for _, m := range matches {
		tag := strings.ToLower(markup[m[2]:m[3]])
		el := Element{Tag: tag, Attrs: parseAttrs(markup[m[4]:m[5]])}
		selfClosing := m[7] > m[6]

		if tag == "svg" {
			if !foundRoot {
				out.Root = el
				foundRoot = true
			}
			continue
		}
		if !foundRoot {
			continue
		}
		if tag == "text" && !selfClosing {
			rest := markup[m[1]:]
			if loc := textCloseRe.FindStringIndex(rest); loc != nil {
				el.Text = html.UnescapeString(anyTagRe.ReplaceAllString(rest[:loc[0]], ""))
			}
		}
		out.Elements = append(out.Elements, el)
	}
	if !foundRoot {
		return nil, ErrNoSVGRoot
	}
	return out, nil
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		attrs[m[1]] = html.UnescapeString(v)
	}
	return attrs
}
