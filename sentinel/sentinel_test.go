package sentinel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rmonterde/fieldops/geo"
)

// ============================================================================
// Test fixtures
// ============================================================================

// fakeHub serves the token and process endpoints, recording traffic.
type fakeHub struct {
	t *testing.T

	tokenCalls   int
	processCalls int
	expiresIn    int
	failures     int // initial process calls answered with failStatus
	failStatus   int
	lastAuth     string
	lastBody     processRequest
}

func newFakeHub(t *testing.T) (*fakeHub, *httptest.Server) {
	t.Helper()
	hub := &fakeHub{t: t, expiresIn: 3600}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		hub.tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}
		if got := r.PostForm.Get("client_id"); got != "test-id" {
			t.Errorf("client_id = %q, want test-id", got)
		}
		if got := r.PostForm.Get("client_secret"); got != "test-secret" {
			t.Errorf("client_secret = %q, want test-secret", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fake-token",
			"expires_in":   hub.expiresIn,
		})
	})
	mux.HandleFunc("/api/v1/process", func(w http.ResponseWriter, r *http.Request) {
		hub.processCalls++
		hub.lastAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&hub.lastBody); err != nil {
			t.Errorf("decoding process body: %v", err)
		}
		if hub.processCalls <= hub.failures {
			http.Error(w, "upstream unhappy", hub.failStatus)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png tile"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, srv
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return New(Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		BaseURL:      srv.URL,
		CacheDir:     t.TempDir(),
		Client:       srv.Client(),
	})
}

func palacioRequest() TileRequest {
	return TileRequest{
		BBox: geo.Around(geo.LatLon{Lat: 19.0433, Lon: -98.1981}, 0.009),
	}
}

// ============================================================================
// Configuration
// ============================================================================

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SENTINEL_INSTANCE_ID", "inst")
	t.Setenv("SENTINEL_CLIENT_ID", "id")
	t.Setenv("SENTINEL_CLIENT_SECRET", "secret")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error: %v", err)
	}
	if cfg.InstanceID != "inst" || cfg.ClientID != "id" || cfg.ClientSecret != "secret" {
		t.Errorf("ConfigFromEnv() = %+v, want env values", cfg)
	}
}

func TestConfigFromEnvMissing(t *testing.T) {
	t.Setenv("SENTINEL_INSTANCE_ID", "inst")
	t.Setenv("SENTINEL_CLIENT_ID", "id")
	t.Setenv("SENTINEL_CLIENT_SECRET", "")

	_, err := ConfigFromEnv()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "SENTINEL_CLIENT_SECRET") {
		t.Errorf("error = %v, want missing variable named", err)
	}
}

// ============================================================================
// Tile requests
// ============================================================================

func TestTileRequestDefaults(t *testing.T) {
	req := palacioRequest().normalized()

	if req.Width != 1024 || req.Height != 1024 {
		t.Errorf("size = %dx%d, want 1024x1024", req.Width, req.Height)
	}
	if req.Collection != "sentinel-2-l2a" {
		t.Errorf("Collection = %q, want sentinel-2-l2a", req.Collection)
	}
	if !req.From.Equal(DefaultFrom) || !req.To.Equal(DefaultTo) {
		t.Errorf("window = %v..%v, want defaults", req.From, req.To)
	}
}

func TestTileCacheKey(t *testing.T) {
	req := palacioRequest()
	if got, want := req.CacheKey(), "tile_19.0433_-98.1981_0.0180x0.0180_1024x1024.png"; got != want {
		t.Errorf("CacheKey() = %q, want %q", got, want)
	}
}

func TestTileCacheKeyDistinguishesExtent(t *testing.T) {
	wide := palacioRequest()
	narrow := TileRequest{BBox: geo.Around(wide.BBox.Center(), 0.0045)}
	if wide.CacheKey() == narrow.CacheKey() {
		t.Errorf("same key %q for different extents", wide.CacheKey())
	}
}

func TestTrueColor(t *testing.T) {
	hub, srv := newFakeHub(t)
	c := testClient(t, srv)

	data, err := c.TrueColor(context.Background(), palacioRequest())
	if err != nil {
		t.Fatalf("TrueColor() error: %v", err)
	}
	if string(data) != "png tile" {
		t.Errorf("tile = %q, want served bytes", data)
	}
	if hub.tokenCalls != 1 || hub.processCalls != 1 {
		t.Errorf("calls = %d token, %d process, want 1 and 1", hub.tokenCalls, hub.processCalls)
	}
	if hub.lastAuth != "Bearer fake-token" {
		t.Errorf("Authorization = %q, want Bearer fake-token", hub.lastAuth)
	}

	body := hub.lastBody
	box := palacioRequest().BBox
	wantBBox := [4]float64{box.MinLon, box.MinLat, box.MaxLon, box.MaxLat}
	if body.Input.Bounds.BBox != wantBBox {
		t.Errorf("bbox = %v, want %v", body.Input.Bounds.BBox, wantBBox)
	}
	if len(body.Input.Data) != 1 || body.Input.Data[0].Type != "sentinel-2-l2a" {
		t.Errorf("data = %+v, want one sentinel-2-l2a entry", body.Input.Data)
	}
	tr := body.Input.Data[0].DataFilter.TimeRange
	if tr.From != "2025-01-01T00:00:00Z" || tr.To != "2025-04-12T23:59:59Z" {
		t.Errorf("timeRange = %+v, want default window", tr)
	}
	if body.Output.Width != 1024 || body.Output.Height != 1024 {
		t.Errorf("output size = %dx%d, want 1024x1024", body.Output.Width, body.Output.Height)
	}
	if !strings.Contains(body.Evalscript, "sample.B04 * 2.5") {
		t.Errorf("evalscript missing true color gain:\n%s", body.Evalscript)
	}

	cached := filepath.Join(c.cacheDir, "tile_19.0433_-98.1981_0.0180x0.0180_1024x1024.png")
	if data, err := os.ReadFile(cached); err != nil || string(data) != "png tile" {
		t.Errorf("cached tile = %q, %v; want served bytes", data, err)
	}
}

func TestTrueColorHighRes(t *testing.T) {
	hub, srv := newFakeHub(t)
	c := testClient(t, srv)

	req := palacioRequest()
	req.Width, req.Height = HighResTileSize, HighResTileSize
	if _, err := c.TrueColor(context.Background(), req); err != nil {
		t.Fatalf("TrueColor() error: %v", err)
	}
	if hub.lastBody.Output.Width != 2048 || hub.lastBody.Output.Height != 2048 {
		t.Errorf("output size = %dx%d, want 2048x2048",
			hub.lastBody.Output.Width, hub.lastBody.Output.Height)
	}
}

func TestTrueColorCacheHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server contacted despite cached tile")
	}))
	defer srv.Close()

	c := testClient(t, srv)
	cached := filepath.Join(c.cacheDir, "tile_19.0433_-98.1981_0.0180x0.0180_1024x1024.png")
	if err := os.WriteFile(cached, []byte("cached tile"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := c.TrueColor(context.Background(), palacioRequest())
	if err != nil {
		t.Fatalf("TrueColor() error: %v", err)
	}
	if string(data) != "cached tile" {
		t.Errorf("tile = %q, want cached bytes", data)
	}
}

// ============================================================================
// Token lifecycle
// ============================================================================

func TestTokenReused(t *testing.T) {
	hub, srv := newFakeHub(t)
	c := testClient(t, srv)

	first := palacioRequest()
	second := TileRequest{BBox: geo.Around(geo.LatLon{Lat: 19.05, Lon: -98.2}, 0.009)}

	for _, req := range []TileRequest{first, second} {
		if _, err := c.TrueColor(context.Background(), req); err != nil {
			t.Fatalf("TrueColor() error: %v", err)
		}
	}
	if hub.tokenCalls != 1 {
		t.Errorf("token calls = %d, want 1", hub.tokenCalls)
	}
	if hub.processCalls != 2 {
		t.Errorf("process calls = %d, want 2", hub.processCalls)
	}
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	hub, srv := newFakeHub(t)
	hub.expiresIn = 30 // under the expiry skew, so never considered valid
	c := testClient(t, srv)

	first := palacioRequest()
	second := TileRequest{BBox: geo.Around(geo.LatLon{Lat: 19.05, Lon: -98.2}, 0.009)}

	for _, req := range []TileRequest{first, second} {
		if _, err := c.TrueColor(context.Background(), req); err != nil {
			t.Fatalf("TrueColor() error: %v", err)
		}
	}
	if hub.tokenCalls != 2 {
		t.Errorf("token calls = %d, want 2", hub.tokenCalls)
	}
}

// ============================================================================
// Error handling
// ============================================================================

func TestTrueColorProcessError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/api/v1/process", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no recent acquisitions", http.StatusBadRequest)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.TrueColor(context.Background(), palacioRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"400", "no recent acquisitions"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %v, want %q in message", err, want)
		}
	}
}

func TestTrueColorRejectsNonPNG(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/api/v1/process", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>maintenance</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.TrueColor(context.Background(), palacioRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"image/png", "maintenance"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %v, want %q in message", err, want)
		}
	}

	// The error page must not poison the cache.
	cached := filepath.Join(c.cacheDir, palacioRequest().CacheKey())
	if _, statErr := os.Stat(cached); !os.IsNotExist(statErr) {
		t.Error("non-PNG response was written to the tile cache")
	}
}

func TestTrueColorRefreshesTokenOn401(t *testing.T) {
	hub, srv := newFakeHub(t)
	hub.failures = 1
	hub.failStatus = http.StatusUnauthorized
	c := testClient(t, srv)

	data, err := c.TrueColor(context.Background(), palacioRequest())
	if err != nil {
		t.Fatalf("TrueColor() error: %v", err)
	}
	if string(data) != "png tile" {
		t.Errorf("tile = %q, want served bytes", data)
	}
	if hub.tokenCalls != 2 {
		t.Errorf("token calls = %d, want a forced refresh", hub.tokenCalls)
	}
	if hub.processCalls != 2 {
		t.Errorf("process calls = %d, want one retry", hub.processCalls)
	}
}

func TestTrueColorRetriesServerError(t *testing.T) {
	hub, srv := newFakeHub(t)
	hub.failures = 1
	hub.failStatus = http.StatusServiceUnavailable
	c := testClient(t, srv)

	data, err := c.TrueColor(context.Background(), palacioRequest())
	if err != nil {
		t.Fatalf("TrueColor() error: %v", err)
	}
	if string(data) != "png tile" {
		t.Errorf("tile = %q, want served bytes", data)
	}
	if hub.processCalls != 2 {
		t.Errorf("process calls = %d, want one retry", hub.processCalls)
	}
}

func TestTrueColorTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.TrueColor(context.Background(), palacioRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "token request failed") {
		t.Errorf("error = %v, want token failure", err)
	}
}

func TestTrueColorContextCanceled(t *testing.T) {
	_, srv := newFakeHub(t)
	c := testClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.TrueColor(ctx, palacioRequest()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// ============================================================================
// Defaults
// ============================================================================

func TestDefaultWindow(t *testing.T) {
	if got, want := DefaultFrom.Format(time.RFC3339), "2025-01-01T00:00:00Z"; got != want {
		t.Errorf("DefaultFrom = %s, want %s", got, want)
	}
	if got, want := DefaultTo.Format(time.RFC3339), "2025-04-12T23:59:59Z"; got != want {
		t.Errorf("DefaultTo = %s, want %s", got, want)
	}
}
