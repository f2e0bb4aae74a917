// Command sitegen renders every landing page to static files and optionally publishes
// them to a Cloud Storage bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"tradelaw.us/web/internal/config"
	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/export"
	"tradelaw.us/web/internal/handlers"
	"tradelaw.us/web/internal/observability"
	"tradelaw.us/web/internal/publish"
	"tradelaw.us/web/internal/render"
)

func main() {
	logger := observability.NewLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr, logger); err != nil {
		logger.Error("sitegen failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

type flags struct {
	config  string
	out     string
	bucket  string
	content string
	verify  bool
}

func parseFlags(args []string, output io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("sitegen", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.config, "config", os.Getenv("TRADELAW_CONFIG"), "optional YAML config file")
	fs.StringVar(&f.out, "out", "", "output directory (defaults to publish.out_dir)")
	fs.StringVar(&f.bucket, "bucket", "", "Cloud Storage bucket to publish to instead of a directory")
	fs.StringVar(&f.content, "content", "", "landing page directory overriding the embedded library")
	fs.BoolVar(&f.verify, "verify", false, "render and audit every page without writing output")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if fs.NArg() > 0 {
		return flags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

func run(ctx context.Context, args []string, output io.Writer, logger *zap.Logger) error {
	f, err := parseFlags(args, output)
	if err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if f.out != "" {
		cfg.Publish.OutDir = f.out
	}
	if f.bucket != "" {
		cfg.Publish.Bucket = f.bucket
	}
	if f.content != "" {
		cfg.Content.Dir = f.content
	}

	var lib *content.Library
	if cfg.Content.Dir != "" {
		lib, err = content.Load(os.DirFS(cfg.Content.Dir))
	} else {
		lib, err = content.Default()
	}
	if err != nil {
		return err
	}
	renderer, err := render.New(render.Options{Dev: cfg.Dev, Dir: cfg.Server.TemplatesDir})
	if err != nil {
		return err
	}

	opts := export.Options{
		Builder: handlers.Builder{
			Site:      cfg.Site,
			Analytics: cfg.Analytics,
			Library:   lib,
		},
		Renderer:   renderer,
		Logger:     logger,
		VerifyOnly: f.verify,
	}
	if !f.verify {
		target, closeTarget, err := newTarget(ctx, cfg.Publish)
		if err != nil {
			return err
		}
		defer closeTarget()
		opts.Target = target
	}

	res, err := export.Run(ctx, opts)
	if err != nil {
		return err
	}
	logger.Info("sitegen done",
		zap.Int("pages", res.Pages),
		zap.Int("files", len(res.Files)),
		zap.Bool("verify", f.verify),
		zap.String("bucket", cfg.Publish.Bucket),
		zap.String("out", cfg.Publish.OutDir),
	)
	return nil
}

func newTarget(ctx context.Context, cfg config.PublishConfig) (publish.Target, func(), error) {
	if cfg.Bucket == "" {
		return publish.DirTarget{Root: cfg.OutDir}, func() {}, nil
	}
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("storage client: %w", err)
	}
	target, err := publish.NewGCSTarget(client, cfg.Bucket, cfg.Prefix, cfg.CacheControl)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return target, func() { _ = client.Close() }, nil
}
