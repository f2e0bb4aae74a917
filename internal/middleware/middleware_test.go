package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"tradelaw.us/web/internal/observability"
)

func TestAssetsWithCache(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"css/site.css": {Data: []byte("body{margin:0}")},
	}
	h := AssetsWithCache(fsys, "/assets")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{margin:0}", rec.Body.String())
	require.Equal(t, assetCacheControl, rec.Header().Get("Cache-Control"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", "W/"+etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoggerEmitsOneEntryPerRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := observability.NewLoggerTo(&buf, "info")

	r := chi.NewRouter()
	r.Use(chiMid.RequestID)
	r.Use(Logger(logger))
	r.Get("/{slug}", func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, observability.FromContext(r.Context()))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "request completed", entry["message"])
	require.Equal(t, "WARN", entry["severity"])
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/nowhere", entry["path"])
	require.Equal(t, "/{slug}", entry["route"])
	require.EqualValues(t, http.StatusNotFound, entry["status"])
	require.EqualValues(t, len("missing"), entry["bytes"])
	require.NotEmpty(t, entry["request_id"])
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	require.Equal(t, "2.2.2.2", clientIP(req))
}
