package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/format"
)

//go:embed templates
var embedded embed.FS

// Page template names.
const (
	PageHome     = "home"
	PageLanding  = "landing"
	PageNotFound = "404"
)

// PageFor maps a landing page kind to its page template.
func PageFor(kind string) string {
	if kind == content.KindHome {
		return PageHome
	}
	return PageLanding
}

// Options configures a Renderer.
type Options struct {
	// Dev reparses templates from Dir on every render.
	Dev bool
	// Dir is the on-disk template root used in dev mode.
	Dir string
}

// Renderer executes the shared "base" layout around one page template.
type Renderer struct {
	dev   bool
	dir   string
	pages map[string]*template.Template
}

// New parses the embedded templates, or validates Dir when Dev is set.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{dev: opts.Dev, dir: opts.Dir}
	pages, err := parseTemplates(r.source())
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

func (r *Renderer) source() fs.FS {
	if r.dev && r.dir != "" {
		return os.DirFS(r.dir)
	}
	sub, _ := fs.Sub(embedded, "templates")
	return sub
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"now":     time.Now,
		"telHref": telHref,
		"phone":   format.Phone,
		"date":    format.Date,
	}
}

func telHref(number string) template.URL {
	return template.URL(format.TelHref(number))
}

// parseTemplates parses layouts and partials once, then clones that set for every file
// under pages/ so each page can define its own "content" block.
func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	var shared, pageFiles []string
	if err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		if strings.HasPrefix(p, "pages/") {
			pageFiles = append(pageFiles, p)
		} else {
			shared = append(shared, p)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("render: walk templates: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("render: no page templates found")
	}

	root := template.New("_root").Funcs(funcMap())
	if len(shared) > 0 {
		if _, err := root.ParseFS(fsys, shared...); err != nil {
			return nil, fmt.Errorf("render: parse layouts: %w", err)
		}
	}
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		clone, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("render: clone layouts: %w", err)
		}
		if _, err := clone.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".tmpl")] = clone
	}
	return pages, nil
}

// Render executes the base layout with the named page. In dev mode, templates are
// reparsed on each call.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	pages := r.pages
	if r.dev {
		fresh, err := parseTemplates(r.source())
		if err != nil {
			return err
		}
		pages = fresh
	}
	t, ok := pages[page]
	if !ok {
		return fmt.Errorf("render: unknown page %q", page)
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render: execute %s: %w", page, err)
	}
	return nil
}

// Bytes renders into memory.
func (r *Renderer) Bytes(page string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, page, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTML writes a rendered page with status. Rendering happens before any header is
// written so failures still produce a 500.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data any) error {
	body, err := r.Bytes(page, data)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
