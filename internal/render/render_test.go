package render

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"tradelaw.us/web/internal/config"
	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/handlers"
)

func builder(t *testing.T) handlers.Builder {
	t.Helper()
	lib, err := content.Default()
	require.NoError(t, err)
	return handlers.Builder{
		Site: config.SiteConfig{
			BaseURL:      "https://www.example-tradelaw.com",
			Name:         "Example Trade Law",
			PhoneDisplay: "(305) 555-0148",
			PhoneTel:     "+13055550148",
		},
		Analytics: config.AnalyticsConfig{GA4MeasurementID: "G-TEST123"},
		Library:   lib,
	}
}

func parse(t *testing.T, body []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestRenderLandingPage(t *testing.T) {
	t.Parallel()

	r, err := New(Options{})
	require.NoError(t, err)
	b := builder(t)
	page, err := b.Library.Get("miami-customs-lawyer")
	require.NoError(t, err)
	vm, err := b.Landing(page)
	require.NoError(t, err)

	body, err := r.Bytes(PageLanding, vm)
	require.NoError(t, err)
	doc := parse(t, body)

	require.Equal(t, page.Title, doc.Find("head title").Text())
	require.Equal(t, page.Heading, doc.Find("h1").First().Text())
	require.Equal(t, len(b.Meta(page).Schema), doc.Find(`head script[data-managed="structured-data"]`).Length())

	form := doc.Find("#evaluation-form")
	require.Equal(t, 1, form.Length())
	lazy, _ := form.Attr("data-lazy-component")
	require.Equal(t, "EvaluationForm", lazy)

	tel, ok := doc.Find(".site-header a.phone").Attr("href")
	require.True(t, ok)
	require.Equal(t, "tel:+13055550148", tel)

	require.Equal(t, 2, doc.Find(".breadcrumbs li").Length())
	require.Equal(t, len(page.FAQs), doc.Find(".faq details").Length())
	require.Contains(t, string(body), "googletagmanager.com/gtag/js?id=G-TEST123")
	doc.Find(".link-grid a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		require.NotEqual(t, "/miami-customs-lawyer", href)
	})
}

func TestRenderNotFoundWritesStatus(t *testing.T) {
	t.Parallel()

	r, err := New(Options{})
	require.NoError(t, err)
	vm, err := builder(t).NotFound("/nowhere")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.HTML(rec, vm.Status, PageNotFound, vm))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc := parse(t, rec.Body.Bytes())
	robots, _ := doc.Find(`meta[name="robots"]`).Attr("content")
	require.Equal(t, "noindex, follow", robots)
	require.Equal(t, 0, doc.Find(`script[type="application/ld+json"]`).Length())
}

func TestRenderUnknownPage(t *testing.T) {
	t.Parallel()

	r, err := New(Options{})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.Error(t, r.HTML(rec, http.StatusOK, "missing", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDevModeReparsesFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("layouts/base.tmpl", `{{define "base"}}<main>{{template "content" .}}</main>{{end}}`)
	write("pages/home.tmpl", `{{define "content"}}v1{{end}}`)

	r, err := New(Options{Dev: true, Dir: dir})
	require.NoError(t, err)
	out, err := r.Bytes(PageHome, nil)
	require.NoError(t, err)
	require.Equal(t, "<main>v1</main>", string(out))

	write("pages/home.tmpl", `{{define "content"}}v2 {{phone "3055550148"}}{{end}}`)
	out, err = r.Bytes(PageHome, nil)
	require.NoError(t, err)
	require.Equal(t, "<main>v2 (305) 555-0148</main>", string(out))
}

func TestNewFailsWithoutPages(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Dev: true, Dir: t.TempDir()})
	require.ErrorContains(t, err, "no page templates")
}
