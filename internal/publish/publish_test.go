package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"
)

func TestDirTargetWritesNestedFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := DirTarget{Root: root}
	ctx := context.Background()

	require.NoError(t, target.Put(ctx, "index.html", "text/html", []byte("home")))
	require.NoError(t, target.Put(ctx, "miami-customs-lawyer/index.html", "text/html", []byte("miami")))

	got, err := os.ReadFile(filepath.Join(root, "miami-customs-lawyer", "index.html"))
	require.NoError(t, err)
	require.Equal(t, "miami", string(got))

	require.NoError(t, target.Put(ctx, "index.html", "text/html", []byte("home v2")))
	got, err = os.ReadFile(filepath.Join(root, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "home v2", string(got))
}

func TestDirTargetRejectsEscapingNames(t *testing.T) {
	t.Parallel()

	target := DirTarget{Root: t.TempDir()}
	for _, name := range []string{"", "/etc/passwd", "../outside.html", "a/../../b", `a\b`} {
		err := target.Put(context.Background(), name, "text/plain", nil)
		require.True(t, errors.Is(err, ErrInvalidName), name)
	}
}

func TestDirTargetHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := DirTarget{Root: t.TempDir()}.Put(ctx, "index.html", "text/html", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGCSTargetObjectNames(t *testing.T) {
	t.Parallel()

	_, err := NewGCSTarget(nil, "bucket", "", "")
	require.Error(t, err)
	_, err = NewGCSTarget(&gcs.Client{}, " ", "", "")
	require.Error(t, err)

	target, err := NewGCSTarget(&gcs.Client{}, "site-bucket", "/preview/", "public, max-age=300")
	require.NoError(t, err)
	name, err := target.ObjectName("miami-customs-lawyer/index.html")
	require.NoError(t, err)
	require.Equal(t, "preview/miami-customs-lawyer/index.html", name)

	_, err = target.ObjectName("../index.html")
	require.ErrorIs(t, err, ErrInvalidName)
}
