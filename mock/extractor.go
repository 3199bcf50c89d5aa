package mock

import "github.com/fwojciec/docschema"

var _ docschema.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docschema.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docschema.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docschema.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docschema.Parser = (*Parser)(nil)

// Parser is a mock implementation of docschema.Parser.
type Parser struct {
	ParseFn func(sourceURL string, html string) (*docschema.Document, error)
}

func (p *Parser) Parse(sourceURL string, html string) (*docschema.Document, error) {
	return p.ParseFn(sourceURL, html)
}
