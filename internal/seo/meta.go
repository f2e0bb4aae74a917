package seo

import (
	"strings"
)

// PageMeta is the per-page head configuration.
type PageMeta struct {
	Title       string
	Description string
	// Canonical is a path relative to the site base URL, e.g. "miami-customs-lawyer".
	Canonical string
	OGType    string
	OGImage   string
	Keywords  string
	Robots    string
	Schema    []Schema
}

// Page is one mounted PageMeta: its head values plus the structured data it owns.
type Page struct {
	doc       *Document
	baseURL   string
	injection *Injection
}

// Mount applies meta to doc and injects its schema list.
func Mount(doc *Document, baseURL string, meta PageMeta, opts ...InjectOption) (*Page, error) {
	if doc == nil {
		return nil, ErrNoHead
	}
	p := &Page{doc: doc, baseURL: baseURL}
	if err := p.apply(meta); err != nil {
		return nil, err
	}
	inj, err := Inject(doc, meta.Schema, opts...)
	if err != nil {
		return nil, err
	}
	p.injection = inj
	return p, nil
}

// Update re-applies meta. Tags are overwritten in place and the schema set is reconciled.
func (p *Page) Update(meta PageMeta) error {
	if err := p.apply(meta); err != nil {
		return err
	}
	return p.injection.Update(meta.Schema)
}

// Unmount removes the page's structured data. Title, meta and link tags stay in the head
// until the next page overwrites them.
func (p *Page) Unmount() {
	if p == nil {
		return
	}
	p.injection.Release()
}

// Injection exposes the page's structured data handle.
func (p *Page) Injection() *Injection { return p.injection }

func (p *Page) apply(meta PageMeta) error {
	d := p.doc
	if meta.Title != "" {
		if err := d.SetTitle(meta.Title); err != nil {
			return err
		}
	}
	canonical := CanonicalURL(p.baseURL, meta.Canonical)
	tags := []struct{ key, val string }{
		{"description", meta.Description},
		{"keywords", meta.Keywords},
		{"robots", meta.Robots},
		{"og:type", meta.OGType},
		{"og:title", meta.Title},
		{"og:description", meta.Description},
		{"og:url", canonical},
		{"og:image", meta.OGImage},
		{"twitter:card", twitterCard(meta)},
		{"twitter:title", meta.Title},
		{"twitter:description", meta.Description},
		{"twitter:image", meta.OGImage},
	}
	for _, t := range tags {
		if t.val == "" {
			continue
		}
		if err := d.SetMeta(t.key, t.val); err != nil {
			return err
		}
	}
	return d.SetLink("canonical", canonical)
}

func twitterCard(meta PageMeta) string {
	if meta.OGImage != "" {
		return "summary_large_image"
	}
	if meta.Title != "" {
		return "summary"
	}
	return ""
}

// CanonicalURL joins the site base URL and a relative path with exactly one slash.
func CanonicalURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
