package seo

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadIsDeterministic(t *testing.T) {
	t.Parallel()

	meta := PageMeta{
		Title:       "Customs Counsel",
		Description: "D",
		Canonical:   "houston-customs-lawyer",
		Schema:      sampleSchemas(2),
	}
	first, err := RenderHead(testBase, meta)
	require.NoError(t, err)
	second, err := RenderHead(testBase, meta)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderHeadMarkup(t *testing.T) {
	t.Parallel()

	out, err := RenderHead(testBase, PageMeta{
		Title:     `Tariffs & "Duties"`,
		Canonical: "tariffs",
		Schema:    []Schema{WebPage(WebPageInput{Title: "</script>", URL: "https://site/tariffs"}), FAQPage(nil)},
	})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head>" + string(out) + "</head><body></body></html>"))
	require.NoError(t, err)

	require.Equal(t, `Tariffs & "Duties"`, doc.Find("title").Text())
	require.Equal(t, "https://site/tariffs", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))

	scripts := doc.Find(`script[type="application/ld+json"][data-managed="structured-data"]`)
	require.Equal(t, 2, scripts.Length())
	require.Equal(t, "page:tariffs", scripts.First().AttrOr("data-owner", ""))
	require.Equal(t,
		map[string]any{"@context": "https://schema.org", "@type": "WebPage", "name": "</script>", "description": "", "url": "https://site/tariffs"},
		decode(t, scripts.First().Text()),
	)
}

func TestRenderHeadHomeOwner(t *testing.T) {
	t.Parallel()

	out, err := RenderHead(testBase, PageMeta{Title: "Home", Schema: sampleSchemas(1)})
	require.NoError(t, err)
	require.Contains(t, string(out), `data-owner="page:home"`)
	require.Contains(t, string(out), `<link rel="canonical" href="https://site/"/>`)
}
