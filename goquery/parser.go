package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docschema"
	"github.com/samber/lo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Parser implements docschema.Parser at compile time.
var _ docschema.Parser = (*Parser)(nil)

// Parser builds documents from HTML using goquery.
type Parser struct {
	models []*docschema.EvaluationModel
}

// Option configures a Parser.
type Option func(*Parser)

// WithEvaluationModels scores the text of parsed documents against models.
func WithEvaluationModels(models ...*docschema.EvaluationModel) Option {
	return func(p *Parser) {
		p.models = append(p.models, models...)
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses rawHTML fetched from sourceURL.
func (p *Parser) Parse(sourceURL string, rawHTML string) (*docschema.Document, error) {
	source, err := url.Parse(sourceURL)
	if err != nil || !source.IsAbs() || source.Host == "" {
		return nil, docschema.Errorf(docschema.EINVALID, "invalid source URL: %q", sourceURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docschema.Errorf(docschema.EINVALID, "failed to parse HTML: %v", err)
	}

	// A base element overrides the document URL for relative references.
	base := source
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	metas := extractMetas(doc)
	text := textOf(doc.Find("body"))

	out := &docschema.Document{
		SourceURL:   sourceURL,
		Title:       extractTitle(doc, metas),
		Author:      firstMeta(metas, "author", "dc.creator"),
		Description: firstMeta(metas, "description", "og:description", "dc.description"),
		Keywords:    splitKeywords(metas["keywords"]),
		Format:      "text/html",
		Charset:     extractCharset(doc, metas),
		Text:        text,
		Location:    extractLocation(metas),
	}
	out.InboundLinks, out.OutboundLinks = extractLinks(doc, base, source)

	h := &docschema.HTMLExtract{Metas: metas}
	for level := 1; level <= len(h.Headings); level++ {
		h.Headings[level-1] = texts(doc.Find("h" + strconv.Itoa(level)))
	}
	h.Bold = runs(doc.Find("b, strong"))
	h.Italic = runs(doc.Find("i, em"))
	h.ListItems = runs(doc.Find("li"))
	h.Images = extractImages(doc, base)
	h.Stylesheets = extractStylesheets(doc, base)
	h.Scripts = sources(doc.Find("script[src]"), "src", base)
	h.Frames = sources(doc.Find("frame[src]"), "src", base)
	h.IFrames = sources(doc.Find("iframe[src]"), "src", base)
	h.Flash = hasFlash(doc)

	if len(p.models) > 0 {
		h.Evaluation = make(map[string]docschema.EvaluationScores, len(p.models))
		for _, m := range p.models {
			if scores := m.Evaluate(out.Title, text); len(scores.Names) > 0 {
				h.Evaluation[m.Name] = scores
			}
		}
	}
	out.HTML = h

	return out, nil
}

func extractTitle(doc *goquery.Document, metas map[string]string) string {
	if title := collapse(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return firstMeta(metas, "og:title", "dc.title")
}

// extractMetas maps lower-cased meta names, http-equiv names and properties
// to their content. The first occurrence of a name wins.
func extractMetas(doc *goquery.Document) map[string]string {
	metas := make(map[string]string)
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		for _, attr := range []string{"name", "http-equiv", "property"} {
			name, ok := s.Attr(attr)
			if !ok {
				continue
			}
			name = strings.ToLower(strings.TrimSpace(name))
			if _, seen := metas[name]; name != "" && !seen {
				metas[name] = strings.TrimSpace(content)
			}
		}
	})
	return metas
}

func firstMeta(metas map[string]string, names ...string) string {
	for _, name := range names {
		if v := metas[name]; v != "" {
			return v
		}
	}
	return ""
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func extractCharset(doc *goquery.Document, metas map[string]string) string {
	if cs, ok := doc.Find("meta[charset]").First().Attr("charset"); ok {
		return strings.TrimSpace(cs)
	}
	ct := strings.ToLower(metas["content-type"])
	if i := strings.Index(ct, "charset="); i >= 0 {
		return strings.Trim(strings.TrimSpace(ct[i+len("charset="):]), `"'`)
	}
	return ""
}

// extractLocation reads geo.position ("lat;lon") or ICBM ("lat, lon").
func extractLocation(metas map[string]string) docschema.Location {
	pos := metas["geo.position"]
	sep := ";"
	if pos == "" {
		pos, sep = metas["icbm"], ","
	}
	lat, lon, ok := strings.Cut(pos, sep)
	if !ok {
		return docschema.Location{}
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return docschema.Location{}
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return docschema.Location{}
	}
	loc := docschema.NewLocation(lonF, latF)
	loc.Name = metas["geo.placename"]
	return loc
}

// extractLinks partitions anchors into links to the source host and links
// to other hosts, in document order. The link table is keyed by URL: the
// first anchor to a URL wins.
func extractLinks(doc *goquery.Document, base, source *url.URL) (inbound, outbound []docschema.Link) {
	var links []docschema.Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		rel, _ := s.Attr("rel")
		links = append(links, docschema.Link{
			URL:  resolved,
			Name: collapse(s.Text()),
			Rel:  strings.TrimSpace(rel),
		})
	})
	for _, link := range lo.UniqBy(links, func(l docschema.Link) string { return l.URL }) {
		if isSameHost(source, link.URL) {
			inbound = append(inbound, link)
		} else {
			outbound = append(outbound, link)
		}
	}
	return inbound, outbound
}

func extractImages(doc *goquery.Document, base *url.URL) []docschema.Image {
	var images []docschema.Image
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		resolved := resolveURL(base, src)
		if resolved == "" {
			return
		}
		alt, _ := s.Attr("alt")
		images = append(images, docschema.Image{
			URL:    resolved,
			Alt:    strings.TrimSpace(alt),
			Width:  dimension(s, "width"),
			Height: dimension(s, "height"),
		})
	})
	return lo.UniqBy(images, func(img docschema.Image) string { return img.URL })
}

// dimension returns a pixel attribute, or -1 if it is missing or not a number.
func dimension(s *goquery.Selection, attr string) int {
	v, ok := s.Attr(attr)
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if err != nil {
		return -1
	}
	return n
}

func extractStylesheets(doc *goquery.Document, base *url.URL) []docschema.Stylesheet {
	var css []docschema.Stylesheet
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if !hasToken(rel, "stylesheet") {
			return
		}
		href, _ := s.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		media := strings.TrimSpace(s.AttrOr("media", ""))
		if media == "" {
			media = "all"
		}
		css = append(css, docschema.Stylesheet{URL: resolved, Media: media})
	})
	return lo.UniqBy(css, func(c docschema.Stylesheet) string { return c.URL })
}

// sources returns the distinct resolved URLs of the selected elements in
// document order.
func sources(sel *goquery.Selection, attr string, base *url.URL) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if resolved := resolveURL(base, s.AttrOr(attr, "")); resolved != "" {
			out = append(out, resolved)
		}
	})
	return lo.Uniq(out)
}

func hasFlash(doc *goquery.Document) bool {
	isSWF := func(v string) bool {
		v = strings.ToLower(strings.TrimSpace(v))
		if i := strings.IndexAny(v, "?#"); i >= 0 {
			v = v[:i]
		}
		return strings.HasSuffix(v, ".swf")
	}
	found := false
	doc.Find("embed, object, param").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(s.AttrOr("type", ""), "application/x-shockwave-flash") ||
			isSWF(s.AttrOr("src", "")) || isSWF(s.AttrOr("data", "")) ||
			(strings.EqualFold(s.AttrOr("name", ""), "movie") && isSWF(s.AttrOr("value", ""))) {
			found = true
		}
		return !found
	})
	return found
}

// texts returns the collapsed, non-empty texts of the selected elements.
func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func runs(sel *goquery.Selection) docschema.TextRuns {
	var r docschema.TextRuns
	for _, t := range texts(sel) {
		r.Add(t)
	}
	return r
}

// textOf returns the visible text of the selection with whitespace
// collapsed to single spaces. Text nodes are separated by a space.
func textOf(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return collapse(strings.Join(parts, " "))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
