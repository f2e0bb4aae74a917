package content

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tradelaw.us/web/internal/nav"
)

// ErrNotFound is returned when no landing page matches a slug.
var ErrNotFound = errors.New("content: not found")

// Page kinds.
const (
	KindHome    = "home"
	KindCity    = "city"
	KindService = "service"
)

// Page is one landing page: marketing copy plus the inputs of its SEO head.
type Page struct {
	Slug        string // "" for the home page
	Kind        string
	City        string
	Title       string // document title
	Heading     string // hero h1
	Description string
	Summary     string
	Keywords    []string
	OGImage     string
	Robots      string
	NavLabel    string
	Order       int
	Services    []Service
	FAQs        []FAQ
	Trust       []string
	Related     []string
	Body        template.HTML
	UpdatedAt   time.Time
}

// Service is one practice area offered on a page.
type Service struct {
	Name        string
	Description string
	ServiceType string
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string
	Answer   string
}

// Path returns the site-relative URL path of the page.
func (p Page) Path() string {
	return "/" + p.Slug
}

// InNav reports whether the page appears in the primary navigation.
func (p Page) InNav() bool {
	return p.NavLabel != ""
}

// KeywordList joins keywords for the keywords meta tag.
func (p Page) KeywordList() string {
	return strings.Join(p.Keywords, ", ")
}

type frontMatter struct {
	Slug        string   `yaml:"slug"`
	Kind        string   `yaml:"kind"`
	City        string   `yaml:"city"`
	Title       string   `yaml:"title"`
	Heading     string   `yaml:"heading"`
	Description string   `yaml:"description"`
	Summary     string   `yaml:"summary"`
	Keywords    []string `yaml:"keywords"`
	OGImage     string   `yaml:"og_image"`
	Robots      string   `yaml:"robots"`
	NavLabel    string   `yaml:"nav_label"`
	Order       int      `yaml:"order"`
	UpdatedAt   string   `yaml:"updated_at"`
	Trust       []string `yaml:"trust"`
	Related     []string `yaml:"related"`
	Services    []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		ServiceType string `yaml:"service_type"`
	} `yaml:"services"`
	FAQs []struct {
		Question string `yaml:"question"`
		Answer   string `yaml:"answer"`
	} `yaml:"faqs"`
}

// Parse reads one markdown document with YAML front matter. slug is derived from the file
// name and may be overridden by the front matter.
func Parse(slug string, data []byte) (Page, error) {
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("parse front matter: %w", err)
		}
	}
	if s := strings.TrimSpace(front.Slug); s != "" {
		slug = s
	}
	slug, ok := sanitizeSlug(slug)
	if !ok {
		return Page{}, fmt.Errorf("invalid slug %q", slug)
	}

	rendered, err := renderMarkdown(body)
	if err != nil {
		return Page{}, fmt.Errorf("render body: %w", err)
	}

	page := Page{
		Slug:        slug,
		Kind:        strings.TrimSpace(front.Kind),
		City:        strings.TrimSpace(front.City),
		Title:       strings.TrimSpace(front.Title),
		Heading:     strings.TrimSpace(front.Heading),
		Description: strings.TrimSpace(front.Description),
		Summary:     strings.TrimSpace(front.Summary),
		Keywords:    trimAll(front.Keywords),
		OGImage:     strings.TrimSpace(front.OGImage),
		Robots:      strings.TrimSpace(front.Robots),
		NavLabel:    strings.TrimSpace(front.NavLabel),
		Order:       front.Order,
		Trust:       trimAll(front.Trust),
		Related:     trimAll(front.Related),
		Body:        rendered,
		UpdatedAt:   parseDate(front.UpdatedAt),
	}
	if page.Kind == "" {
		page.Kind = defaultKind(slug, page.City)
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	if page.Heading == "" {
		page.Heading = page.Title
	}
	for i, s := range front.Services {
		svc := Service{
			Name:        strings.TrimSpace(s.Name),
			Description: strings.TrimSpace(s.Description),
			ServiceType: strings.TrimSpace(s.ServiceType),
		}
		if svc.Name == "" {
			return Page{}, fmt.Errorf("service %d: name is required", i)
		}
		if svc.ServiceType == "" {
			svc.ServiceType = svc.Name
		}
		page.Services = append(page.Services, svc)
	}
	for i, f := range front.FAQs {
		q := FAQ{Question: strings.TrimSpace(f.Question), Answer: strings.TrimSpace(f.Answer)}
		if q.Question == "" || q.Answer == "" {
			return Page{}, fmt.Errorf("faq %d: question and answer are required", i)
		}
		page.FAQs = append(page.FAQs, q)
	}
	return page, nil
}

func defaultKind(slug, city string) string {
	switch {
	case slug == "":
		return KindHome
	case city != "":
		return KindCity
	default:
		return KindService
	}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sanitizeSlug lowercases and trims slashes. "index" maps to the home page.
func sanitizeSlug(slug string) (string, bool) {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "index" || slug == "" {
		return "", true
	}
	if strings.Contains(slug, "..") || strings.ContainsAny(slug, `\?#`) {
		return slug, false
	}
	return slug, true
}

func prettifySlug(slug string) string {
	if slug == "" {
		return "Home"
	}
	return nav.TitleFromSegment(slug)
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
