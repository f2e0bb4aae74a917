package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"tradelaw.us/web/internal/nav"
)

//go:embed defaults/*.md
var defaults embed.FS

// Library is an immutable, in-memory set of landing pages.
type Library struct {
	pages  []Page
	bySlug map[string]int
}

// Default returns the library compiled into the binary.
func Default() (*Library, error) {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load parses every *.md file at the root of fsys. Duplicate slugs and unknown related
// slugs are rejected.
func Load(fsys fs.FS) (*Library, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("content: read dir: %w", err)
	}
	lib := &Library{bySlug: map[string]int{}}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", e.Name(), err)
		}
		page, err := Parse(strings.TrimSuffix(e.Name(), ".md"), data)
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", e.Name(), err)
		}
		if _, dup := lib.bySlug[page.Slug]; dup {
			return nil, fmt.Errorf("content: %s: duplicate slug %q", e.Name(), page.Slug)
		}
		lib.bySlug[page.Slug] = len(lib.pages)
		lib.pages = append(lib.pages, page)
	}
	for _, p := range lib.pages {
		for _, rel := range p.Related {
			if _, ok := lib.bySlug[rel]; !ok {
				return nil, fmt.Errorf("content: %s: related page %q does not exist", p.Path(), rel)
			}
		}
	}
	sort.SliceStable(lib.pages, func(i, j int) bool {
		if lib.pages[i].Order == lib.pages[j].Order {
			return lib.pages[i].Slug < lib.pages[j].Slug
		}
		return lib.pages[i].Order < lib.pages[j].Order
	})
	for i, p := range lib.pages {
		lib.bySlug[p.Slug] = i
	}
	return lib, nil
}

// Get returns the page for slug ("" or "index" for home).
func (l *Library) Get(slug string) (Page, error) {
	slug, ok := sanitizeSlug(slug)
	if !ok || l == nil {
		return Page{}, ErrNotFound
	}
	i, found := l.bySlug[slug]
	if !found {
		return Page{}, ErrNotFound
	}
	return l.pages[i], nil
}

// All returns every page ordered by Order, then slug.
func (l *Library) All() []Page {
	if l == nil {
		return nil
	}
	return append([]Page(nil), l.pages...)
}

// Kind returns the pages of one kind in library order.
func (l *Library) Kind(kind string) []Page {
	var out []Page
	for _, p := range l.All() {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// NavItems lists pages flagged for the primary navigation.
func (l *Library) NavItems() []nav.Item {
	var out []nav.Item
	for _, p := range l.All() {
		if p.InNav() {
			out = append(out, nav.Item{Path: p.Path(), Label: p.NavLabel})
		}
	}
	return out
}

// LinkItems returns the internal link grid entries for page: its explicit related pages,
// or every page of the same kind when none are listed.
func (l *Library) LinkItems(page Page) []nav.Item {
	var out []nav.Item
	if len(page.Related) > 0 {
		for _, slug := range page.Related {
			if p, err := l.Get(slug); err == nil {
				out = append(out, nav.Item{Path: p.Path(), Label: p.Heading})
			}
		}
		return out
	}
	for _, p := range l.Kind(page.Kind) {
		out = append(out, nav.Item{Path: p.Path(), Label: p.Heading})
	}
	return out
}

// Labels maps page paths to titles for breadcrumb rendering.
func (l *Library) Labels() map[string]string {
	out := make(map[string]string, len(l.pages))
	for _, p := range l.pages {
		label := p.NavLabel
		if label == "" {
			label = p.Heading
		}
		out[p.Path()] = label
	}
	return out
}
