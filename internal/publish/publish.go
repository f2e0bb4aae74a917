// Package publish writes static export output to a directory or a Cloud Storage bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
)

// Target receives generated files. name is a slash-separated relative path such as
// "miami-customs-lawyer/index.html".
type Target interface {
	Put(ctx context.Context, name, contentType string, body []byte) error
}

// ErrInvalidName is returned for absolute or escaping object names.
var ErrInvalidName = errors.New("publish: invalid name")

func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// DirTarget writes files beneath a local directory.
type DirTarget struct {
	Root string
}

// Put writes body to Root/name, creating parent directories.
func (d DirTarget) Put(ctx context.Context, name, _ string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	full := filepath.Join(d.Root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("publish: mkdir %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		return fmt.Errorf("publish: write %s: %w", full, err)
	}
	return nil
}

// GCSTarget uploads files to a Cloud Storage bucket, optionally under a prefix.
type GCSTarget struct {
	client       *gcs.Client
	bucket       string
	prefix       string
	cacheControl string
}

// NewGCSTarget constructs a GCSTarget backed by the provided Cloud Storage client.
func NewGCSTarget(client *gcs.Client, bucket, prefix, cacheControl string) (*GCSTarget, error) {
	if client == nil {
		return nil, errors.New("publish: storage client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("publish: bucket is required")
	}
	return &GCSTarget{
		client:       client,
		bucket:       bucket,
		prefix:       strings.Trim(strings.TrimSpace(prefix), "/"),
		cacheControl: cacheControl,
	}, nil
}

// ObjectName returns the object key for a generated file.
func (g *GCSTarget) ObjectName(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if g.prefix == "" {
		return clean, nil
	}
	return g.prefix + "/" + clean, nil
}

// Put uploads body as one object.
func (g *GCSTarget) Put(ctx context.Context, name, contentType string, body []byte) error {
	object, err := g.ObjectName(name)
	if err != nil {
		return err
	}
	// uploads overwrite whole objects, so retries are idempotent
	obj := g.client.Bucket(g.bucket).Object(object).Retryer(
		gcs.WithBackoff(gax.Backoff{Initial: 200 * time.Millisecond, Max: 5 * time.Second, Multiplier: 2}),
		gcs.WithPolicy(gcs.RetryAlways),
	)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = g.cacheControl
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("publish: upload gs://%s/%s: %w", g.bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("publish: finalize gs://%s/%s: %w", g.bucket, object, err)
	}
	return nil
}
