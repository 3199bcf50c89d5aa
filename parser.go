package docschema

// Parser turns raw HTML into a Document.
type Parser interface {
	// Parse parses html fetched from sourceURL. Relative references are
	// resolved against sourceURL.
	Parse(sourceURL string, html string) (*Document, error)
}
