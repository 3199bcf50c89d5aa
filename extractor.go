package docschema

// ExtractResult holds the content and bibliographic metadata extracted from
// an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	Author      string
	Description string
	Keywords    []string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content and metadata from HTML pages.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The title comes from page metadata (meta tags, JSON+LD, etc.).
	Extract(html string) (*ExtractResult, error)
}

// Enrich fills bibliographic fields of doc that the parser left empty.
func (r *ExtractResult) Enrich(doc *Document) {
	if doc.Title == "" {
		doc.Title = r.Title
	}
	if doc.Author == "" {
		doc.Author = r.Author
	}
	if doc.Description == "" {
		doc.Description = r.Description
	}
	if len(doc.Keywords) == 0 && len(r.Keywords) > 0 {
		doc.Keywords = append([]string{}, r.Keywords...)
	}
}
