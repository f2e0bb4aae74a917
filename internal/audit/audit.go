// Package audit inspects rendered pages and checks their head against the PageMeta they
// were rendered from.
package audit

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"

	"tradelaw.us/web/internal/seo"
)

// Script is one JSON-LD block found in a page head.
type Script struct {
	Owner string
	Raw   string
	Value any // parsed JSON, nil when Raw is not valid JSON
}

// Report is the observable head state of a rendered page.
type Report struct {
	Title     string
	Canonical string
	Meta      map[string]string

	// Duplicates lists meta keys that occur more than once.
	Duplicates []string
	Managed    []Script

	// Foreign counts ld+json scripts without the managed marker.
	Foreign int

	// LazyForm reports whether the evaluation form mount point is present.
	LazyForm bool
}

// Inspect parses an HTML document.
func Inspect(r io.Reader) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("audit: parse html: %w", err)
	}
	head := doc.Find("head")
	rep := Report{
		Title: strings.TrimSpace(head.Find("title").First().Text()),
		Meta:  map[string]string{},
	}
	rep.Canonical, _ = head.Find(`link[rel="canonical"]`).First().Attr("href")
	head.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("name")
		if !ok {
			key, ok = s.Attr("property")
		}
		if !ok || key == "" {
			return
		}
		if _, seen := rep.Meta[key]; seen {
			rep.Duplicates = append(rep.Duplicates, key)
			return
		}
		rep.Meta[key] = s.AttrOr("content", "")
	})
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr(seo.ManagedAttr, "") != seo.ManagedValue {
			rep.Foreign++
			return
		}
		sc := Script{Owner: s.AttrOr(seo.OwnerAttr, ""), Raw: s.Text()}
		var v any
		if json.Unmarshal([]byte(sc.Raw), &v) == nil {
			sc.Value = v
		}
		rep.Managed = append(rep.Managed, sc)
	})
	form := doc.Find("#evaluation-form")
	rep.LazyForm = form.Length() == 1 && form.AttrOr("data-lazy-component", "") == "EvaluationForm"
	return rep, nil
}

// Violation lists every way a page breaks its head contract.
type Violation struct {
	Page     string
	Problems []string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("audit %s: %s", v.Page, strings.Join(v.Problems, "; "))
}

// Verify checks rep against the meta the page was rendered from: title, canonical URL, one
// managed script per schema in order with equal JSON content, and no duplicated meta
// tags. It returns a *Violation or nil.
func Verify(rep Report, baseURL string, meta seo.PageMeta) error {
	v := &Violation{Page: seo.CanonicalURL(baseURL, meta.Canonical)}
	add := func(format string, args ...any) {
		v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
	}

	if meta.Title != "" && rep.Title != meta.Title {
		add("title %q, want %q", rep.Title, meta.Title)
	}
	if want := seo.CanonicalURL(baseURL, meta.Canonical); rep.Canonical != want {
		add("canonical %q, want %q", rep.Canonical, want)
	}
	for _, m := range []struct{ key, want string }{
		{"description", meta.Description},
		{"robots", meta.Robots},
		{"og:type", meta.OGType},
		{"og:image", meta.OGImage},
	} {
		if m.want != "" && rep.Meta[m.key] != m.want {
			add("meta %s %q, want %q", m.key, rep.Meta[m.key], m.want)
		}
	}
	for _, key := range rep.Duplicates {
		add("meta %s is duplicated", key)
	}

	want := nonNil(meta.Schema)
	if len(rep.Managed) != len(want) {
		add("%d managed scripts, want %d", len(rep.Managed), len(want))
	} else {
		for i, s := range want {
			expected, err := normalize(s)
			if err != nil {
				add("schema %d: %v", i, err)
				continue
			}
			if rep.Managed[i].Value == nil {
				add("script %d is not valid JSON", i)
				continue
			}
			if !reflect.DeepEqual(expected, rep.Managed[i].Value) {
				add("script %d content differs from schema", i)
			}
		}
	}
	owners := map[string]struct{}{}
	for _, s := range rep.Managed {
		owners[s.Owner] = struct{}{}
	}
	if len(owners) > 1 {
		add("managed scripts have %d owners, want 1", len(owners))
	}

	if len(v.Problems) == 0 {
		return nil
	}
	return v
}

func nonNil(schemas []seo.Schema) []seo.Schema {
	out := make([]seo.Schema, 0, len(schemas))
	for _, s := range schemas {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func normalize(s seo.Schema) (any, error) {
	raw, err := seo.Marshal(s)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
