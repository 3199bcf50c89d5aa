package docschema

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Mapper converts documents into index records. It holds no mutable state
// and is safe for concurrent use when Fields is an immutable snapshot such
// as *FieldSet.
type Mapper struct {
	// Fields gates every optional field. Nil or empty emits all fields.
	Fields FieldSelector

	// Resolver enriches records with the host address. Optional.
	Resolver HostResolver
}

// NewMapper returns a Mapper using fields and resolver.
func NewMapper(fields FieldSelector, resolver HostResolver) *Mapper {
	return &Mapper{Fields: fields, Resolver: resolver}
}

// recordBuilder writes values into a record through the field gate.
type recordBuilder struct {
	rec    *Record
	fields FieldSelector
}

func (b *recordBuilder) enabled(name string) bool {
	return Enabled(b.fields, name)
}

func (b *recordBuilder) write(name string, v Value) {
	if b.enabled(name) {
		b.rec.Set(name, v)
	}
}

func (b *recordBuilder) writeString(name, s string) {
	if s != "" {
		b.write(name, StringValue(s))
	}
}

// Map builds the index record of doc. Optional data that is absent is left
// out of the record. Returns EINVALID if id is empty or the source URL of
// doc cannot be normalized.
func (m *Mapper) Map(ctx context.Context, id string, resp *Response, doc *Document) (*Record, error) {
	if id == "" {
		return nil, Errorf(EINVALID, "document id required")
	}
	if doc == nil {
		return nil, Errorf(EINVALID, "document required")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	sku, err := NormalizeURL(doc.SourceURL)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(sku)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid source URL %q: %v", sku, err)
	}

	b := &recordBuilder{rec: NewRecord(), fields: m.Fields}

	// Overwrite a fail reason left by an earlier attempt on the same id.
	b.write(FieldFailReason, StringValue(""))
	b.rec.Set(FieldID, StringValue(id))
	b.rec.Set(FieldSKU, BoostedValue(sku, SKUBoost))

	host := u.Hostname()
	if host != "" && m.Resolver != nil && b.enabled(FieldIP) {
		if ip, err := m.Resolver.LookupHost(ctx, host); err == nil && ip != "" {
			b.write(FieldIP, StringValue(ip))
		}
	}
	b.writeString(FieldHost, host)

	b.write(FieldTitle, StringValue(doc.Title))
	b.writeString(FieldAuthor, doc.Author)
	b.writeString(FieldDescription, doc.Description)
	b.writeString(FieldContentType, doc.Format)
	if resp != nil && !resp.LastModified.IsZero() {
		b.write(FieldLastModified, DateValue(resp.LastModified))
	}
	b.writeString(FieldKeywords, strings.Join(doc.Keywords, " "))

	b.write(FieldText, StringValue(doc.Text))
	if b.enabled(FieldWordCount) {
		b.write(FieldWordCount, IntValue(int64(len(splitDropTrailing(doc.Text, " ")))))
	}

	if b.enabled(FieldPaths) && u.Path != "" {
		if paths := splitDropTrailing(u.Path, "/"); len(paths) > 0 {
			b.write(FieldPaths, StringsValue(paths))
		}
	}

	b.write(FieldInboundLinksCount, IntValue(int64(len(doc.InboundLinks))))
	if b.enabled(FieldInboundLinks) {
		b.write(FieldInboundLinks, StringsValue(anchors(doc.InboundLinks)))
	}
	b.write(FieldOutboundLinksCount, IntValue(int64(len(doc.OutboundLinks))))
	if b.enabled(FieldOutboundLinks) {
		b.write(FieldOutboundLinks, StringsValue(anchors(doc.OutboundLinks)))
	}

	b.writeString(FieldCharset, doc.Charset)

	if doc.Location.HasCoordinates() {
		b.write(FieldLon, FloatValue(doc.Location.Lon))
		b.write(FieldLat, FloatValue(doc.Location.Lat))
	}

	// Only successfully fetched documents are mapped.
	b.write(FieldHTTPStatus, IntValue(200))

	if doc.HTML != nil {
		mapHTML(b, doc.HTML, resp)
	}

	return b.rec, nil
}

func mapHTML(b *recordBuilder, h *HTMLExtract, resp *Response) {
	htags := 0
	for level := 1; level <= 6; level++ {
		hs := h.Headlines(level)
		if len(hs) > 0 {
			htags |= 1 << (level - 1)
		}
		b.write(HeadingField(level), StringsValue(hs))
	}
	b.write(FieldHTags, IntValue(int64(htags)))

	if robots, ok := h.Metas["robots"]; ok {
		b.write(FieldMetaRobots, StringValue(robots))
	}
	if generator, ok := h.Metas["generator"]; ok {
		b.write(FieldMetaGenerator, StringValue(generator))
	}

	writeRuns(b, h.Bold, FieldBoldCount, FieldBold, FieldBoldRunCounts)
	writeRuns(b, h.Italic, FieldItalicCount, FieldItalic, FieldItalicRunCounts)
	writeRuns(b, h.ListItems, FieldLiCount, FieldLi, "")

	// Resource categories gate both the count and the list on the list field.
	if b.enabled(FieldImages) {
		images := lo.Map(h.Images, func(img Image, _ int) string {
			img.URL = normalForm(img.URL)
			return img.Tag()
		})
		writeCategory(b, FieldImagesCount, FieldImages, images)
	}
	if b.enabled(FieldCSS) {
		css := lo.Map(h.Stylesheets, func(s Stylesheet, _ int) string {
			s.URL = normalForm(s.URL)
			return s.Tag()
		})
		writeCategory(b, FieldCSSCount, FieldCSS, css)
	}
	if b.enabled(FieldScripts) {
		writeCategory(b, FieldScriptsCount, FieldScripts, normalForms(h.Scripts))
	}
	if b.enabled(FieldFrames) {
		writeCategory(b, FieldFramesCount, FieldFrames, normalForms(h.Frames))
	}
	if b.enabled(FieldIFrames) {
		writeCategory(b, FieldIFramesCount, FieldIFrames, normalForms(h.IFrames))
	}

	b.write(FieldFlash, BoolValue(h.Flash))

	models := lo.Keys(h.Evaluation)
	slices.Sort(models)
	for _, model := range models {
		name := EvaluationField(model)
		if !b.enabled(name) {
			continue
		}
		scores := h.Evaluation[model]
		if len(scores.Names) == 0 {
			continue
		}
		b.write(name, StringsValue(scores.Names))
		b.write(EvaluationCountField(model), StringsValue(scores.CountStrings()))
	}

	// A header that is not a number of milliseconds leaves the field out.
	if ms, err := strconv.ParseInt(strings.TrimSpace(resp.HeaderValue(HeaderResponseTime, "0")), 10, 64); err == nil {
		b.write(FieldResponseTime, IntValue(ms))
	}
}

// writeRuns always writes the run count; the texts only when there are any,
// and the per-run counts only when countsField is explicitly enabled.
func writeRuns(b *recordBuilder, runs TextRuns, countField, textsField, countsField string) {
	b.write(countField, IntValue(int64(len(runs.Texts))))
	if len(runs.Texts) == 0 {
		return
	}
	b.write(textsField, StringsValue(runs.Texts))
	if countsField != "" && b.enabled(countsField) {
		b.write(countsField, StringsValue(runs.CountStrings()))
	}
}

func writeCategory(b *recordBuilder, countField, listField string, items []string) {
	b.write(countField, IntValue(int64(len(items))))
	if len(items) > 0 {
		b.write(listField, StringsValue(items))
	}
}

func anchors(links []Link) []string {
	return lo.Map(links, func(l Link, _ int) string {
		l.URL = normalForm(l.URL)
		return l.Anchor()
	})
}

func normalForms(urls []string) []string {
	return lo.Map(urls, func(u string, _ int) string {
		return normalForm(u)
	})
}

// normalForm returns the normalized URL, or raw if it has no normal form
// (relative or host-less URLs such as mailto:).
func normalForm(raw string) string {
	if n, err := NormalizeURL(raw); err == nil {
		return n
	}
	return raw
}

// splitDropTrailing splits s around sep and drops trailing empty tokens.
// Consecutive separators yield empty tokens in between, so "a  b" has three
// tokens. A string with no separator is a single token, even when empty.
func splitDropTrailing(s, sep string) []string {
	parts := strings.Split(s, sep)
	if len(parts) == 1 {
		return parts
	}
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}
