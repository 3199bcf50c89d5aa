package docschema

import (
	"slices"
	"strconv"
	"strings"
)

// Document is a parsed web document, the input of the mapper.
// It is owned by the caller and never modified by the mapper.
type Document struct {
	SourceURL   string   `json:"sourceUrl"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Format      string   `json:"format"` // content type
	Charset     string   `json:"charset"`
	Text        string   `json:"text"`

	Location Location `json:"location"`

	// Links partitioned by the parser into links to the source host
	// (inbound) and links to other hosts (outbound).
	InboundLinks  []Link `json:"inboundLinks"`
	OutboundLinks []Link `json:"outboundLinks"`

	// HTML is nil unless the document was parsed from HTML.
	HTML *HTMLExtract `json:"html,omitempty"`
}

// Validate returns an error if the document cannot be mapped.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// Link is an entry of the document link table.
type Link struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Rel  string `json:"rel"`
}

// NoFollow reports whether the relation attribute is "nofollow", ignoring case.
func (l Link) NoFollow() bool {
	return strings.EqualFold(l.Rel, "nofollow")
}

// Anchor synthesizes the anchor tag stored in the link fields.
// The URL and name are written verbatim.
func (l Link) Anchor() string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(l.URL)
	b.WriteString(`"`)
	if l.NoFollow() {
		b.WriteString(` rel="nofollow"`)
	}
	b.WriteString(">")
	b.WriteString(l.Name)
	b.WriteString("</a>")
	return b.String()
}

// HTMLExtract holds the structure extracted from an HTML document.
type HTMLExtract struct {
	// Headings holds heading texts for levels 1-6 at index level-1.
	Headings [6][]string `json:"headings"`

	Bold      TextRuns `json:"bold"`
	Italic    TextRuns `json:"italic"`
	ListItems TextRuns `json:"listItems"`

	Images      []Image      `json:"images"`
	Stylesheets []Stylesheet `json:"stylesheets"`
	Scripts     []string     `json:"scripts"`
	Frames      []string     `json:"frames"`
	IFrames     []string     `json:"iframes"`
	Flash       bool         `json:"flash"`

	// Metas maps lower-cased meta tag names to their content.
	Metas map[string]string `json:"metas"`

	// Evaluation maps evaluation model names to the scores matched in the
	// document.
	Evaluation map[string]EvaluationScores `json:"evaluation"`
}

// Headlines returns the heading texts of a level from 1 to 6.
func (h *HTMLExtract) Headlines(level int) []string {
	if level < 1 || level > len(h.Headings) {
		return nil
	}
	return h.Headings[level-1]
}

// TextRuns holds distinct text runs of one kind (bold, italic, list item)
// and, when known, how often each run occurred.
type TextRuns struct {
	Texts  []string `json:"texts"`
	Counts []int    `json:"counts,omitempty"`
}

// Add records one occurrence of text.
func (r *TextRuns) Add(text string) {
	i := slices.Index(r.Texts, text)
	if i < 0 {
		r.Texts = append(r.Texts, text)
		i = len(r.Texts) - 1
	}
	for len(r.Counts) <= i {
		r.Counts = append(r.Counts, 0)
	}
	r.Counts[i]++
}

// CountStrings returns the occurrence counts parallel to Texts as decimal
// strings. Runs without a known count report 0.
func (r TextRuns) CountStrings() []string {
	out := make([]string, len(r.Texts))
	for i := range r.Texts {
		n := 0
		if i < len(r.Counts) {
			n = r.Counts[i]
		}
		out[i] = strconv.Itoa(n)
	}
	return out
}

// Image describes an embedded image.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Tag serializes the image as an img tag. Unknown dimensions are -1.
func (i Image) Tag() string {
	return `<img width="` + strconv.Itoa(i.Width) + `" height="` + strconv.Itoa(i.Height) +
		`" src="` + i.URL + `" alt="` + i.Alt + `">`
}

// Stylesheet describes a linked stylesheet.
type Stylesheet struct {
	URL   string `json:"url"`
	Media string `json:"media"`
}

// Tag serializes the stylesheet as a link tag.
func (s Stylesheet) Tag() string {
	return `<link rel="stylesheet" type="text/css" media="` + s.Media + `" href="` + s.URL + `" />`
}
