package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tradelaw.us/web/internal/config"
	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/handlers"
	mw "tradelaw.us/web/internal/middleware"
	"tradelaw.us/web/internal/observability"
	"tradelaw.us/web/internal/render"
	"tradelaw.us/web/internal/sitemap"
)

func main() {
	configPath := flag.String("config", os.Getenv("TRADELAW_CONFIG"), "optional YAML config file")
	flag.Parse()

	logger := observability.NewLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	lib, err := loadLibrary(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("load content", zap.Error(err))
	}
	renderer, err := render.New(render.Options{Dev: cfg.Dev, Dir: cfg.Server.TemplatesDir})
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}

	app := &app{
		builder: handlers.Builder{
			Site:      cfg.Site,
			Analytics: cfg.Analytics,
			Library:   lib,
		},
		renderer: renderer,
		assets:   os.DirFS(filepath.Join(cfg.Server.PublicDir, "assets")),
		logger:   logger,
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()
	logger.Info("web listening",
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("dev", cfg.Dev),
		zap.Int("pages", len(lib.All())),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func loadLibrary(dir string) (*content.Library, error) {
	if dir == "" {
		return content.Default()
	}
	return content.Load(os.DirFS(dir))
}

type app struct {
	builder  handlers.Builder
	renderer *render.Renderer
	assets   fs.FS
	logger   *zap.Logger
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that sets it.
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/assets/*", mw.AssetsWithCache(a.assets, "/assets"))
	r.Get("/sitemap.xml", a.sitemap)
	r.Get("/robots.txt", a.robots)
	r.Get("/", a.page)
	r.Get("/{slug}", a.page)
	r.NotFound(a.notFound)
	return r
}

func (a *app) page(w http.ResponseWriter, r *http.Request) {
	page, err := a.builder.Library.Get(chi.URLParam(r, "slug"))
	if errors.Is(err, content.ErrNotFound) {
		a.notFound(w, r)
		return
	}
	vm, err := a.builder.Landing(page)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.html(w, r, http.StatusOK, render.PageFor(page.Kind), vm)
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	vm, err := a.builder.NotFound(r.URL.Path)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.html(w, r, http.StatusNotFound, render.PageNotFound, vm)
}

func (a *app) html(w http.ResponseWriter, r *http.Request, status int, page string, vm handlers.PageData) {
	if err := a.renderer.HTML(w, status, page, vm); err != nil {
		observability.FromContext(r.Context()).Error("render page", zap.String("page", page), zap.Error(err))
	}
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("build page", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (a *app) sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := sitemap.Build(a.builder.Site.BaseURL, sitemap.Entries(a.builder.Library.All()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (a *app) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(sitemap.Robots(a.builder.Site.BaseURL))
}
