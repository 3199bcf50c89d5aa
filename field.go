package docschema

import "strconv"

// Index field names. The typed suffixes (_s string, _i integer, _t full
// text, _b boolean, attr_* structural HTML extraction) drive how the index
// stores and analyzes each field, so these names must not change.
const (
	FieldFailReason         = "failreason_t"
	FieldID                 = "id"
	FieldSKU                = "sku"
	FieldIP                 = "ip_s"
	FieldHost               = "host_s"
	FieldTitle              = "title"
	FieldAuthor             = "author"
	FieldDescription        = "description"
	FieldContentType        = "content_type"
	FieldLastModified       = "last_modified"
	FieldKeywords           = "keywords"
	FieldText               = "text_t"
	FieldWordCount          = "wordcount_i"
	FieldPaths              = "attr_paths"
	FieldInboundLinksCount  = "inboundlinkscount_i"
	FieldInboundLinks       = "attr_inboundlinks"
	FieldOutboundLinksCount = "outboundlinkscount_i"
	FieldOutboundLinks      = "attr_outboundlinks"
	FieldCharset            = "charset_s"
	FieldLon                = "lon_coordinate"
	FieldLat                = "lat_coordinate"
	FieldHTTPStatus         = "httpstatus_i"
	FieldHTags              = "htags_i"
	FieldMetaRobots         = "metarobots_t"
	FieldMetaGenerator      = "metagenerator_t"
	FieldBoldCount          = "boldcount_i"
	FieldBold               = "attr_bold"
	FieldBoldRunCounts      = "attr_boldcount"
	FieldItalicCount        = "italiccount_i"
	FieldItalic             = "attr_italic"
	FieldItalicRunCounts    = "attr_italiccount"
	FieldLiCount            = "licount_i"
	FieldLi                 = "attr_li"
	FieldImagesCount        = "imagescount_i"
	FieldImages             = "attr_images"
	FieldCSSCount           = "csscount_i"
	FieldCSS                = "attr_css"
	FieldScriptsCount       = "scriptscount_i"
	FieldScripts            = "attr_scripts"
	FieldFramesCount        = "framesscount_i"
	FieldFrames             = "attr_frames"
	FieldIFramesCount       = "iframesscount_i"
	FieldIFrames            = "attr_iframes"
	FieldFlash              = "flash_b"
	FieldResponseTime       = "responsetime_i"
)

// SKUBoost is the relevance boost of the canonical locator field.
const SKUBoost = 3.0

// HeadingField returns the field name for heading level 1-6.
func HeadingField(level int) string {
	return "attr_h" + strconv.Itoa(level)
}

// EvaluationField returns the field name of the score names of an
// evaluation model.
func EvaluationField(model string) string {
	return "attr_" + model
}

// EvaluationCountField returns the field name of the score counts of an
// evaluation model.
func EvaluationCountField(model string) string {
	return "attr_" + model + "count"
}

// Field describes one entry of the index schema.
type Field struct {
	Name        string
	Kind        Kind
	Description string
}

// Fields returns the static schema catalog in emission order. Evaluation
// model fields are computed per model and are not listed.
func Fields() []Field {
	fields := []Field{
		{FieldFailReason, KindString, "fail reason, cleared on every successful mapping"},
		{FieldID, KindString, "caller-supplied document identifier"},
		{FieldSKU, KindBoosted, "normalized source URL"},
		{FieldIP, KindString, "resolved host address"},
		{FieldHost, KindString, "host of the source URL"},
		{FieldTitle, KindString, "document title"},
		{FieldAuthor, KindString, "document author"},
		{FieldDescription, KindString, "document description"},
		{FieldContentType, KindString, "document content type"},
		{FieldLastModified, KindDate, "last-modified date of the response"},
		{FieldKeywords, KindString, "subject keywords separated by spaces"},
		{FieldText, KindString, "full extracted text"},
		{FieldWordCount, KindInt, "number of space-separated words in the text"},
		{FieldPaths, KindStrings, "path segments of the source URL"},
		{FieldInboundLinksCount, KindInt, "number of links to the same host"},
		{FieldInboundLinks, KindStrings, "anchor tags of links to the same host"},
		{FieldOutboundLinksCount, KindInt, "number of links to other hosts"},
		{FieldOutboundLinks, KindStrings, "anchor tags of links to other hosts"},
		{FieldCharset, KindString, "document charset"},
		{FieldLon, KindFloat, "longitude"},
		{FieldLat, KindFloat, "latitude"},
		{FieldHTTPStatus, KindInt, "HTTP status, always 200"},
	}
	for level := 1; level <= 6; level++ {
		fields = append(fields, Field{HeadingField(level), KindStrings, "heading texts"})
	}
	return append(fields,
		Field{FieldHTags, KindInt, "bitmask of heading levels present"},
		Field{FieldMetaRobots, KindString, "robots meta tag"},
		Field{FieldMetaGenerator, KindString, "generator meta tag"},
		Field{FieldBoldCount, KindInt, "number of bold runs"},
		Field{FieldBold, KindStrings, "bold runs"},
		Field{FieldBoldRunCounts, KindStrings, "occurrences per bold run"},
		Field{FieldItalicCount, KindInt, "number of italic runs"},
		Field{FieldItalic, KindStrings, "italic runs"},
		Field{FieldItalicRunCounts, KindStrings, "occurrences per italic run"},
		Field{FieldLiCount, KindInt, "number of list items"},
		Field{FieldLi, KindStrings, "list item texts"},
		Field{FieldImagesCount, KindInt, "number of images"},
		Field{FieldImages, KindStrings, "image tags"},
		Field{FieldCSSCount, KindInt, "number of stylesheets"},
		Field{FieldCSS, KindStrings, "stylesheet link tags"},
		Field{FieldScriptsCount, KindInt, "number of scripts"},
		Field{FieldScripts, KindStrings, "script URLs"},
		Field{FieldFramesCount, KindInt, "number of frames"},
		Field{FieldFrames, KindStrings, "frame URLs"},
		Field{FieldIFramesCount, KindInt, "number of iframes"},
		Field{FieldIFrames, KindStrings, "iframe URLs"},
		Field{FieldFlash, KindBool, "document embeds flash content"},
		Field{FieldResponseTime, KindInt, "response time in milliseconds"},
	)
}
