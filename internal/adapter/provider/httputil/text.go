package httputil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blankRuns = regexp.MustCompile(`[ \t\f\v]+`)
	lineRuns  = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText extracts readable text from an HTML document. Script and style
// elements are dropped. A <pre> block, as used by Congress.gov formatted
// text, is preferred over the surrounding body.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, head").Remove()
	doc.Find("p, div, br, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var text string
	if pre := doc.Find("pre"); pre.Length() > 0 {
		text = pre.Text()
	} else {
		text = doc.Find("body").Text()
		if text == "" {
			text = doc.Text()
		}
	}
	return NormalizeSpace(text), nil
}

// NormalizeSpace collapses horizontal whitespace and excess blank lines.
func NormalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(blankRuns.ReplaceAllString(l, " "))
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(lineRuns.ReplaceAllString(s, "\n\n"))
}
