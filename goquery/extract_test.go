package goquery_test

import (
	"testing"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Links(t *testing.T) {
	t.Parallel()

	t.Run("partitions links by host in document order", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<a href="/docs/intro">Introduction</a>
<a href="https://other.org/page" rel="nofollow">Other   site</a>
<a href="guide#install">Guide</a>
<a href="HTTPS://Example.COM/upper">Upper</a>
<a href="https://sub.example.com/">Sub</a>
</body>
</html>`

		doc, err := goquery.NewParser().Parse("https://example.com/docs/", html)

		require.NoError(t, err)
		assert.Equal(t, []docschema.Link{
			{URL: "https://example.com/docs/intro", Name: "Introduction"},
			{URL: "https://example.com/docs/guide", Name: "Guide"},
			{URL: "https://Example.COM/upper", Name: "Upper"},
		}, doc.InboundLinks)
		assert.Equal(t, []docschema.Link{
			{URL: "https://other.org/page", Name: "Other site", Rel: "nofollow"},
			{URL: "https://sub.example.com/", Name: "Sub"},
		}, doc.OutboundLinks)
	})

	t.Run("skips non-HTTP links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="javascript:void(0)">JS</a>
<a href="mailto:team@example.com">Mail</a>
<a href="tel:+123">Phone</a>
<a href="data:text/plain,hi">Data</a>
<a href="">Empty</a>
<a href="/ok">OK</a>
</body></html>`

		doc, err := goquery.NewParser().Parse("https://example.com/", html)

		require.NoError(t, err)
		require.Len(t, doc.InboundLinks, 1)
		assert.Equal(t, "https://example.com/ok", doc.InboundLinks[0].URL)
		assert.Empty(t, doc.OutboundLinks)
	})

	t.Run("resolves against the base element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><base href="https://cdn.example.net/assets/"></head>
<body><a href="page.html">Page</a><img src="logo.png"></body></html>`

		doc, err := goquery.NewParser().Parse("https://example.com/", html)

		require.NoError(t, err)
		require.Len(t, doc.OutboundLinks, 1)
		assert.Equal(t, "https://cdn.example.net/assets/page.html", doc.OutboundLinks[0].URL)
		assert.Equal(t, "https://cdn.example.net/assets/logo.png", doc.HTML.Images[0].URL)
	})

	t.Run("keeps self references", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="#top">Top</a></body></html>`

		doc, err := goquery.NewParser().Parse("https://example.com/page", html)

		require.NoError(t, err)
		require.Len(t, doc.InboundLinks, 1)
		assert.Equal(t, "https://example.com/page", doc.InboundLinks[0].URL)
	})
}
