package geofabrik

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ============================================================================
// Test fixtures
// ============================================================================

// buildBundle assembles a zip archive from name to content pairs.
func buildBundle(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// roadsBundle is a minimal bundle with the roads layer nested one
// directory deep, plus an unrelated layer that must be ignored.
func roadsBundle(t *testing.T) []byte {
	t.Helper()
	return buildBundle(t, map[string]string{
		"mexico/gis_osm_roads_free_1.shp":  "shp bytes",
		"mexico/gis_osm_roads_free_1.shx":  "shx bytes",
		"mexico/gis_osm_roads_free_1.dbf":  "dbf bytes",
		"mexico/gis_osm_roads_free_1.prj":  "prj bytes",
		"mexico/gis_osm_roads_free_1.cpg":  "ignored",
		"mexico/gis_osm_places_free_1.shp": "other layer",
	})
}

func testClient(t *testing.T, srv *httptest.Server, retries int) *Client {
	t.Helper()
	return New(Config{
		BaseURL:  srv.URL,
		Region:   "north-america/mexico",
		CacheDir: t.TempDir(),
		Retries:  retries,
		Client:   srv.Client(),
	})
}

// ============================================================================
// URL construction
// ============================================================================

func TestBundleURL(t *testing.T) {
	c := New(Config{})
	want := "http://download.geofabrik.de/north-america/mexico-latest-free.shp.zip"
	if got := c.BundleURL(); got != want {
		t.Errorf("BundleURL() = %q, want %q", got, want)
	}
}

func TestBundleURLTrimsSlash(t *testing.T) {
	c := New(Config{BaseURL: "http://mirror.example/", Region: "europe/spain"})
	want := "http://mirror.example/europe/spain-latest-free.shp.zip"
	if got := c.BundleURL(); got != want {
		t.Errorf("BundleURL() = %q, want %q", got, want)
	}
}

// ============================================================================
// Download and extraction
// ============================================================================

func TestRoadsDownloadsAndExtracts(t *testing.T) {
	bundle := roadsBundle(t)
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(bundle)
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	shpPath, err := c.Roads(context.Background())
	if err != nil {
		t.Fatalf("Roads() error: %v", err)
	}

	if want := "/north-america/mexico-latest-free.shp.zip"; gotPath != want {
		t.Errorf("requested path = %q, want %q", gotPath, want)
	}
	if want := filepath.Join(c.cacheDir, "gis_osm_roads_free_1.shp"); shpPath != want {
		t.Errorf("Roads() = %q, want %q", shpPath, want)
	}

	for ext, want := range map[string]string{
		".shp": "shp bytes",
		".shx": "shx bytes",
		".dbf": "dbf bytes",
		".prj": "prj bytes",
	} {
		data, err := os.ReadFile(filepath.Join(c.cacheDir, RoadsLayer+ext))
		if err != nil {
			t.Fatalf("reading extracted %s: %v", ext, err)
		}
		if string(data) != want {
			t.Errorf("extracted %s = %q, want %q", ext, data, want)
		}
	}

	if _, err := os.Stat(filepath.Join(c.cacheDir, RoadsLayer+".cpg")); !os.IsNotExist(err) {
		t.Error("unexpected .cpg extracted")
	}
	if _, err := os.Stat(filepath.Join(c.cacheDir, "gis_osm_places_free_1.shp")); !os.IsNotExist(err) {
		t.Error("unrelated layer extracted")
	}
}

func TestLayerCacheHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server contacted despite cached layer")
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	for _, ext := range sidecarExts {
		path := filepath.Join(c.cacheDir, RoadsLayer+ext)
		if err := os.WriteFile(path, []byte("cached"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := c.Roads(context.Background())
	if err != nil {
		t.Fatalf("Roads() error: %v", err)
	}
	if want := filepath.Join(c.cacheDir, RoadsLayer+".shp"); got != want {
		t.Errorf("Roads() = %q, want %q", got, want)
	}
}

func TestLayerPartialCacheRedownloads(t *testing.T) {
	bundle := roadsBundle(t)
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(bundle)
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	// A layer that died after the .shp install is not a cache hit.
	shp := filepath.Join(c.cacheDir, RoadsLayer+".shp")
	if err := os.WriteFile(shp, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Roads(context.Background()); err != nil {
		t.Fatalf("Roads() error: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want the partial layer re-downloaded once", requests)
	}
	for _, ext := range sidecarExts {
		if _, err := os.Stat(filepath.Join(c.cacheDir, RoadsLayer+ext)); err != nil {
			t.Errorf("%s missing after re-download: %v", ext, err)
		}
	}
}

func TestLayerRetriesAfterFailure(t *testing.T) {
	bundle := roadsBundle(t)
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			http.Error(w, "try later", http.StatusInternalServerError)
			return
		}
		w.Write(bundle)
	}))
	defer srv.Close()

	c := testClient(t, srv, 1)
	if _, err := c.Roads(context.Background()); err != nil {
		t.Fatalf("Roads() error: %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
}

func TestLayerExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	_, err := c.Roads(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestLayerTerminalStatusNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := testClient(t, srv, 3)
	_, err := c.Roads(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want status in message", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want no retries on a terminal status", requests)
	}
}

func TestLayerIncompleteBundleLeavesNoPartial(t *testing.T) {
	bundle := buildBundle(t, map[string]string{
		"gis_osm_roads_free_1.shp": "shp bytes",
		"gis_osm_roads_free_1.shx": "shx bytes",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bundle)
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	_, err := c.Roads(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "missing sidecars") {
		t.Errorf("error = %v, want missing sidecars message", err)
	}
	for _, ext := range sidecarExts {
		if _, statErr := os.Stat(filepath.Join(c.cacheDir, RoadsLayer+ext)); !os.IsNotExist(statErr) {
			t.Errorf("%s left behind after failed install", ext)
		}
	}
}

func TestLayerRejectsNonArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	_, err := c.Roads(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not a shapefile archive") {
		t.Errorf("error = %v, want format message", err)
	}
}

func TestLayerMissingFromBundle(t *testing.T) {
	bundle := buildBundle(t, map[string]string{
		"gis_osm_places_free_1.shp": "other layer",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bundle)
	}))
	defer srv.Close()

	c := testClient(t, srv, 0)
	_, err := c.Roads(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no gis_osm_roads_free_1.shp") {
		t.Errorf("error = %v, want missing layer message", err)
	}
}

func TestLayerContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(t, srv, 3)
	if _, err := c.Roads(ctx); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// ============================================================================
// Cache invalidation
// ============================================================================

func TestInvalidate(t *testing.T) {
	c := New(Config{CacheDir: t.TempDir()})
	for _, ext := range []string{".shp", ".dbf"} {
		path := filepath.Join(c.cacheDir, RoadsLayer+ext)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Invalidate(RoadsLayer); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	for _, ext := range sidecarExts {
		if _, err := os.Stat(filepath.Join(c.cacheDir, RoadsLayer+ext)); !os.IsNotExist(err) {
			t.Errorf("%s still present after Invalidate", ext)
		}
	}
}

func TestInvalidateMissingFiles(t *testing.T) {
	c := New(Config{CacheDir: t.TempDir()})
	if err := c.Invalidate(RoadsLayer); err != nil {
		t.Errorf("Invalidate() on empty cache: %v", err)
	}
}
