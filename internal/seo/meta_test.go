package seo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testBase = "https://site"

func TestMountSinglePageSingleSchema(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	_, err := Mount(doc, testBase, PageMeta{
		Title:  "X",
		Schema: One(WebPage(WebPageInput{Title: "Page", Description: "D", URL: "https://site/x"})),
	})
	require.NoError(t, err)

	require.Equal(t, "X", doc.Title())
	payloads := doc.ManagedScripts("")
	require.Len(t, payloads, 1)

	got, ok := decode(t, payloads[0]).(map[string]any)
	require.True(t, ok)
	require.Equal(t, "WebPage", got["@type"])
	require.Equal(t, "https://site/x", got["url"])
}

func TestMountSetsMetaAndCanonical(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	_, err := Mount(doc, "https://site/", PageMeta{
		Title:       "Miami Customs Lawyer",
		Description: "Customs counsel in Miami",
		Canonical:   "/miami-customs-lawyer",
		OGType:      "website",
		OGImage:     "https://site/og.png",
		Keywords:    "customs, tariffs",
		Robots:      "index, follow",
	})
	require.NoError(t, err)

	require.Equal(t, "https://site/miami-customs-lawyer", doc.Link("canonical"))
	for key, want := range map[string]string{
		"description":    "Customs counsel in Miami",
		"keywords":       "customs, tariffs",
		"robots":         "index, follow",
		"og:type":        "website",
		"og:image":       "https://site/og.png",
		"og:title":       "Miami Customs Lawyer",
		"og:url":         "https://site/miami-customs-lawyer",
		"twitter:card":   "summary_large_image",
		"og:description": "Customs counsel in Miami",
	} {
		got, ok := doc.Meta(key)
		require.True(t, ok, key)
		require.Equal(t, want, got, key)
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	cases := []struct{ base, path, want string }{
		{"https://site", "x", "https://site/x"},
		{"https://site/", "/x", "https://site/x"},
		{"https://site", "", "https://site/"},
		{"https://site", "a/b", "https://site/a/b"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CanonicalURL(tc.base, tc.path))
	}
}

func TestUnmountKeepsMetaAndRemovesSchema(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	page, err := Mount(doc, testBase, PageMeta{
		Title:       "A",
		Description: "first",
		Canonical:   "a",
		Schema:      sampleSchemas(3),
	})
	require.NoError(t, err)
	require.Len(t, doc.ManagedScripts(""), 3)

	page.Unmount()
	require.Empty(t, doc.ManagedScripts(""))
	require.Equal(t, "A", doc.Title())
	desc, ok := doc.Meta("description")
	require.True(t, ok)
	require.Equal(t, "first", desc)
	require.Equal(t, "https://site/a", doc.Link("canonical"))
}

func TestNavigationBetweenPagesNeverOverlaps(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	maxSeen := 0
	observe := func() {
		if n := len(doc.ManagedScripts("")); n > maxSeen {
			maxSeen = n
		}
	}

	pageA, err := Mount(doc, testBase, PageMeta{Title: "A", Canonical: "a", Description: "a", Schema: sampleSchemas(2)})
	require.NoError(t, err)
	observe()

	pageA.Unmount()
	observe()

	_, err = Mount(doc, testBase, PageMeta{Title: "B", Canonical: "b", Schema: sampleSchemas(1)})
	require.NoError(t, err)
	observe()

	require.LessOrEqual(t, maxSeen, 2)
	require.Len(t, doc.ManagedScripts(""), 1)
	require.Equal(t, "B", doc.Title())
	require.Equal(t, "https://site/b", doc.Link("canonical"))

	// B sets no description, so A's value stays until overwritten
	desc, _ := doc.Meta("description")
	require.Equal(t, "a", desc)
}

func TestMetaTagsAreOverwrittenNotDuplicated(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	page, err := Mount(doc, testBase, PageMeta{Title: "A", Description: "one", Canonical: "a"})
	require.NoError(t, err)
	size := doc.HeadLen()

	require.NoError(t, page.Update(PageMeta{Title: "B", Description: "two", Canonical: "b"}))
	require.Equal(t, size, doc.HeadLen())
	require.Equal(t, "B", doc.Title())
	desc, _ := doc.Meta("description")
	require.Equal(t, "two", desc)
	require.Equal(t, "https://site/b", doc.Link("canonical"))
}

func TestPageUpdateReconcilesSchema(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	page, err := Mount(doc, testBase, PageMeta{Title: "A", Schema: sampleSchemas(2)})
	require.NoError(t, err)

	require.NoError(t, page.Update(PageMeta{Title: "A", Schema: sampleSchemas(2)}))
	require.Len(t, doc.ManagedScripts(""), 2)

	require.NoError(t, page.Update(PageMeta{Title: "A", Schema: sampleSchemas(4)}))
	require.Len(t, doc.ManagedScripts(page.Injection().Owner()), 4)
}

func TestMountWithoutHead(t *testing.T) {
	t.Parallel()

	_, err := Mount(&Document{}, testBase, PageMeta{Title: "X"})
	require.ErrorIs(t, err, ErrNoHead)
}
