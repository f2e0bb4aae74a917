package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item represents a navigation or link-grid entry.
type Item struct {
	Path  string // e.g. "/miami-customs-lawyer"
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// HomeLabel is the label of the first breadcrumb.
const HomeLabel = "Home"

// Build renders navigation items with active state given the current path.
func Build(items []Item, currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		out = append(out, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return out
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/tariffs" or "/tariffs/..."
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - Segments whose cumulative path appears in labels use that label
// - Other segments use a title-cased slug
func Breadcrumbs(currentPath string, labels map[string]string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: HomeLabel, Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.TrimPrefix(currentPath, "/"))
	if clean == "/" {
		return crumbs
	}
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	href := ""
	for i, seg := range parts {
		href += "/" + seg
		label, ok := labels[href]
		if !ok || label == "" {
			label = TitleFromSegment(seg)
		}
		crumbs = append(crumbs, Crumb{
			Href:   href,
			Label:  label,
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

// Related returns up to limit link-grid entries, skipping the current page.
// A non-positive limit returns every remaining entry.
func Related(items []Item, currentPath string, limit int) []RenderedItem {
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		if it.Path == currentPath {
			continue
		}
		out = append(out, RenderedItem{Href: it.Path, Label: it.Label})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// TitleFromSegment turns a slug such as "section-301_tariffs" into "Section 301 Tariffs".
func TitleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	// a Caser is stateful, so each call gets its own
	return cases.Title(language.English).String(s)
}
