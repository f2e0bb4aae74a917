package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/format"
	"tradelaw.us/web/internal/seo"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Entry is one indexable page.
type Entry struct {
	Path     string // site-relative, e.g. "/miami-customs-lawyer"
	Updated  time.Time
	Priority float64 // 0 omits the element
}

// Entries lists every indexable page, home first at the highest priority.
func Entries(pages []content.Page) []Entry {
	out := make([]Entry, 0, len(pages))
	for _, p := range pages {
		if strings.Contains(strings.ToLower(p.Robots), "noindex") {
			continue
		}
		out = append(out, Entry{Path: p.Path(), Updated: p.UpdatedAt, Priority: priority(p.Kind)})
	}
	return out
}

func priority(kind string) float64 {
	switch kind {
	case content.KindHome:
		return 1.0
	case content.KindCity:
		return 0.8
	default:
		return 0.6
	}
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// Build renders a sitemap.xml document listing entries with absolute URLs, in order.
func Build(baseURL string, entries []Entry) ([]byte, error) {
	set := urlset{Xmlns: xmlns, URLs: make([]url, 0, len(entries))}
	for _, e := range entries {
		u := url{
			Loc:     seo.CanonicalURL(baseURL, e.Path),
			LastMod: format.ISODate(e.Updated),
		}
		if e.Priority > 0 {
			u.Priority = strconv.FormatFloat(e.Priority, 'f', 1, 64)
		}
		set.URLs = append(set.URLs, u)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("sitemap: encode: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders robots.txt allowing every crawler, disallowing the given paths and
// pointing at the sitemap.
func Robots(baseURL string, disallow ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("User-agent: *\n")
	if len(disallow) == 0 {
		buf.WriteString("Allow: /\n")
	}
	for _, p := range disallow {
		fmt.Fprintf(&buf, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&buf, "\nSitemap: %s\n", seo.CanonicalURL(baseURL, "sitemap.xml"))
	return buf.Bytes()
}
