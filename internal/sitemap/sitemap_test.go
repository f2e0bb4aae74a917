package sitemap

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tradelaw.us/web/internal/content"
)

func TestBuildListsAbsoluteURLs(t *testing.T) {
	t.Parallel()

	out, err := Build("https://www.example-tradelaw.com/", []Entry{
		{Path: "/", Priority: 1},
		{Path: "/miami-customs-lawyer", Updated: time.Date(2025, 1, 28, 9, 0, 0, 0, time.UTC), Priority: 0.8},
		{Path: "tariff-classification"},
	})
	require.NoError(t, err)
	require.Contains(t, string(out), `<?xml version="1.0" encoding="UTF-8"?>`)

	var got urlset
	require.NoError(t, xml.Unmarshal(out, &got))
	require.Equal(t, xmlns, got.Xmlns)
	require.Equal(t, []url{
		{Loc: "https://www.example-tradelaw.com/", Priority: "1.0"},
		{Loc: "https://www.example-tradelaw.com/miami-customs-lawyer", LastMod: "2025-01-28", Priority: "0.8"},
		{Loc: "https://www.example-tradelaw.com/tariff-classification"},
	}, got.URLs)
}

func TestRobots(t *testing.T) {
	t.Parallel()

	require.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://site/sitemap.xml\n",
		string(Robots("https://site")))
	require.Equal(t, "User-agent: *\nDisallow: /404.html\n\nSitemap: https://site/sitemap.xml\n",
		string(Robots("https://site/", "/404.html")))
}

func TestEntriesSkipNoindexPages(t *testing.T) {
	t.Parallel()

	updated := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	got := Entries([]content.Page{
		{Slug: "", Kind: content.KindHome, UpdatedAt: updated},
		{Slug: "miami-customs-lawyer", Kind: content.KindCity},
		{Slug: "draft", Kind: content.KindService, Robots: "NOINDEX, nofollow"},
		{Slug: "tariff-classification", Kind: content.KindService},
	})
	require.Equal(t, []Entry{
		{Path: "/", Updated: updated, Priority: 1.0},
		{Path: "/miami-customs-lawyer", Priority: 0.8},
		{Path: "/tariff-classification", Priority: 0.6},
	}, got)
}
