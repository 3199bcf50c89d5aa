package trafilatura

import (
	"bytes"
	"slices"
	"strings"

	"github.com/fwojciec/docschema"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docschema.Extractor at compile time.
var _ docschema.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docschema.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docschema.Errorf(docschema.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &docschema.ExtractResult{
		Title:       result.Metadata.Title,
		Author:      result.Metadata.Author,
		Description: result.Metadata.Description,
		Keywords:    keywords(result.Metadata.Tags, result.Metadata.Categories),
		ContentHTML: contentHTML,
	}, nil
}

// keywords merges tags and categories, dropping blanks and duplicates.
func keywords(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		for _, k := range g {
			k = strings.TrimSpace(k)
			if k != "" && !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	return out
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
