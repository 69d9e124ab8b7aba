package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanDescription turns a job description that may contain HTML markup
// into plain text. Block elements become line breaks and list items become
// "- " bullets. Plain text passes through CleanText unchanged in meaning.
func CleanDescription(description string) (string, error) {
	if !strings.Contains(description, "<") {
		return CleanText(description), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return "", fmt.Errorf("failed to parse description HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n- ")
	})
	doc.Find("p, div, h1, h2, h3, h4, h5, h6, ul, ol, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(doc.Text()), nil
}
