package fetch

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// extractText returns the readable text of an HTML page. When the body has no
// text, the OpenGraph or meta description is used instead.
func extractText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, template, svg, iframe, nav, footer, header, aside").Remove()

	var parts []string
	doc.Find("title").First().Each(func(_ int, s *goquery.Selection) {
		if t := normalizeSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if text := normalizeSpace(doc.Find("body").Text()); text != "" {
		parts = append(parts, text)
		return strings.Join(parts, "\n"), nil
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err == nil && og.Description != "" {
		parts = append(parts, normalizeSpace(og.Description))
		return strings.Join(parts, "\n"), nil
	}
	if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		if d := normalizeSpace(desc); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// truncateRunes cuts s to at most n runes; n <= 0 means no limit.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
