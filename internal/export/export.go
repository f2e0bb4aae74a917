// Package export renders the whole site to static files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tradelaw.us/web/internal/audit"
	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/handlers"
	"tradelaw.us/web/internal/publish"
	"tradelaw.us/web/internal/render"
	"tradelaw.us/web/internal/seo"
	"tradelaw.us/web/internal/sitemap"
)

// NotFoundFile is the name of the exported 404 page.
const NotFoundFile = "404.html"

// Options configures one export run.
type Options struct {
	Builder  handlers.Builder
	Renderer *render.Renderer
	// Target may be nil when VerifyOnly is set.
	Target     publish.Target
	Logger     *zap.Logger
	VerifyOnly bool
}

// Result summarises an export run.
type Result struct {
	Pages int
	Files []string
}

type file struct {
	name        string
	contentType string
	body        []byte
}

// Run renders and audits every page, then writes pages, 404.html, sitemap.xml and
// robots.txt to the target. Nothing is written when any page fails its audit.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Renderer == nil || opts.Builder.Library == nil {
		return Result{}, errors.New("export: renderer and library are required")
	}
	if opts.Target == nil && !opts.VerifyOnly {
		return Result{}, errors.New("export: target is required")
	}
	b := opts.Builder
	base := b.Site.BaseURL

	var (
		files    []file
		failures []error
	)
	pages := b.Library.All()
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		vm, err := b.Landing(page)
		if err != nil {
			return Result{}, fmt.Errorf("export %s: %w", page.Path(), err)
		}
		body, err := opts.Renderer.Bytes(render.PageFor(page.Kind), vm)
		if err != nil {
			return Result{}, fmt.Errorf("export %s: %w", page.Path(), err)
		}
		meta := b.Meta(page)
		if err := check(body, base, meta); err != nil {
			logger.Error("page failed audit", zap.String("path", page.Path()), zap.Error(err))
			failures = append(failures, err)
			continue
		}
		logger.Info("page rendered",
			zap.String("path", page.Path()),
			zap.Int("bytes", len(body)),
			zap.Int("schemas", len(meta.Schema)),
		)
		files = append(files, file{name: fileName(page), contentType: "text/html; charset=utf-8", body: body})
	}

	vm, err := b.NotFound("/" + NotFoundFile)
	if err != nil {
		return Result{}, fmt.Errorf("export 404: %w", err)
	}
	notFound, err := opts.Renderer.Bytes(render.PageNotFound, vm)
	if err != nil {
		return Result{}, fmt.Errorf("export 404: %w", err)
	}
	if err := check(notFound, base, b.NotFoundMeta("/"+NotFoundFile)); err != nil {
		failures = append(failures, err)
	}
	if len(failures) > 0 {
		return Result{}, errors.Join(failures...)
	}
	files = append(files, file{name: NotFoundFile, contentType: "text/html; charset=utf-8", body: notFound})

	sm, err := sitemap.Build(base, sitemap.Entries(pages))
	if err != nil {
		return Result{}, err
	}
	files = append(files,
		file{name: "sitemap.xml", contentType: "application/xml; charset=utf-8", body: sm},
		file{name: "robots.txt", contentType: "text/plain; charset=utf-8", body: sitemap.Robots(base)},
	)

	res := Result{Pages: len(pages)}
	for _, f := range files {
		res.Files = append(res.Files, f.name)
	}
	if opts.VerifyOnly {
		logger.Info("verify complete", zap.Int("pages", res.Pages))
		return res, nil
	}
	for _, f := range files {
		if err := opts.Target.Put(ctx, f.name, f.contentType, f.body); err != nil {
			return Result{}, fmt.Errorf("export: put %s: %w", f.name, err)
		}
	}
	logger.Info("export complete", zap.Int("pages", res.Pages), zap.Int("files", len(res.Files)))
	return res, nil
}

func check(body []byte, base string, meta seo.PageMeta) error {
	rep, err := audit.Inspect(bytes.NewReader(body))
	if err != nil {
		return err
	}
	if err := audit.Verify(rep, base, meta); err != nil {
		return err
	}
	if !rep.LazyForm {
		return &audit.Violation{Page: seo.CanonicalURL(base, meta.Canonical), Problems: []string{"evaluation form mount point missing"}}
	}
	return nil
}

func fileName(page content.Page) string {
	if page.Slug == "" {
		return "index.html"
	}
	return page.Slug + "/index.html"
}
