package readability

import (
	"regexp"
	"strings"

	"github.com/fwojciec/docschema"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docschema.Extractor at compile time.
var _ docschema.Extractor = (*Extractor)(nil)

// bylinePrefix matches the "By" lead-in readability keeps in bylines.
var bylinePrefix = regexp.MustCompile(`(?i)^(written\s+)?by\s+`)

// Extractor uses go-readability to find the bibliographic metadata of a
// page: title, byline and excerpt.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the article metadata of rawHTML. Pages without a title fall
// back to the site name.
func (e *Extractor) Extract(rawHTML string) (*docschema.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docschema.Errorf(docschema.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	title := collapse(article.Title)
	if title == "" {
		title = collapse(article.SiteName)
	}

	return &docschema.ExtractResult{
		Title:       title,
		Author:      author(article.Byline),
		Description: collapse(article.Excerpt),
		ContentHTML: article.Content,
	}, nil
}

// author cleans a byline down to the author names.
func author(byline string) string {
	return collapse(bylinePrefix.ReplaceAllString(collapse(byline), ""))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
