// Package geofabrik downloads and caches Geofabrik OSM shapefile
// extracts.
package geofabrik

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/rmonterde/fieldops/format"
	"github.com/rmonterde/fieldops/internal/log"
)

const (
	// DefaultBaseURL is the public Geofabrik download server.
	DefaultBaseURL = "http://download.geofabrik.de"
	// DefaultRegion is the extract region path.
	DefaultRegion = "north-america/mexico"
	// DefaultCacheDir is where extracted layers are kept.
	DefaultCacheDir = "data/shapefiles"

	// RoadsLayer is the OSM roads layer name inside the bundle.
	RoadsLayer = "gis_osm_roads_free_1"

	// RoadClassField is the roads layer attribute carrying the OSM
	// highway class.
	RoadClassField = "fclass"
)

// MainRoadClasses are the drivable highway classes worth drawing on
// route maps, from motorways down to tertiary roads.
var MainRoadClasses = []string{"motorway", "trunk", "primary", "secondary", "tertiary"}

// sidecarExts are the per-layer files extracted from the bundle.
var sidecarExts = []string{".shp", ".shx", ".dbf", ".prj"}

// Config captures options for a Client. Zero values pick defaults.
type Config struct {
	BaseURL  string
	Region   string
	CacheDir string
	Retries  int          // extra attempts after the first
	Client   *http.Client // defaults to a 10 minute timeout client
}

// Client fetches regional shapefile bundles and caches their layers.
type Client struct {
	baseURL  string
	region   string
	cacheDir string
	retries  int
	http     *http.Client
	logger   zerolog.Logger
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		region:   cfg.Region,
		cacheDir: cfg.CacheDir,
		retries:  cfg.Retries,
		http:     cfg.Client,
		logger:   log.WithComponent("geofabrik"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.region == "" {
		c.region = DefaultRegion
	}
	if c.cacheDir == "" {
		c.cacheDir = DefaultCacheDir
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Minute}
	}
	return c
}

// BundleURL returns the URL of the region's shapefile bundle.
func (c *Client) BundleURL() string {
	return c.baseURL + "/" + c.region + "-latest-free.shp.zip"
}

// Roads ensures the OSM roads layer is cached and returns its .shp path.
func (c *Client) Roads(ctx context.Context) (string, error) {
	return c.Layer(ctx, RoadsLayer)
}

// Layer ensures the named layer is cached, downloading and extracting
// the regional bundle on a miss. Returns the layer's .shp path.
func (c *Client) Layer(ctx context.Context, layer string) (string, error) {
	target := filepath.Join(c.cacheDir, layer+".shp")
	if layerComplete(c.cacheDir, layer) {
		c.logger.Debug().Str("layer", layer).Str("path", target).Msg("cache hit")
		return target, nil
	}

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	bundle, cleanup, err := c.download(ctx)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if err := verifyBundle(bundle); err != nil {
		return "", err
	}

	if err := extractLayer(bundle, layer, c.cacheDir); err != nil {
		return "", fmt.Errorf("extracting %s: %w", layer, err)
	}

	// Files install atomically but the set does not, so a bundle missing
	// a sidecar must not be left behind as a half layer.
	if !layerComplete(c.cacheDir, layer) {
		if err := c.Invalidate(layer); err != nil {
			return "", err
		}
		return "", fmt.Errorf("bundle layer %s is missing sidecars", layer)
	}

	c.logger.Info().Str("layer", layer).Str("path", target).Msg("layer cached")
	return target, nil
}

// layerComplete reports whether every sidecar of the layer is cached.
func layerComplete(dir, layer string) bool {
	for _, ext := range sidecarExts {
		if _, err := os.Stat(filepath.Join(dir, layer+ext)); err != nil {
			return false
		}
	}
	return true
}

// Invalidate removes the layer's cached files so the next Layer call
// downloads a fresh bundle.
func (c *Client) Invalidate(layer string) error {
	for _, ext := range sidecarExts {
		path := filepath.Join(c.cacheDir, layer+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

// verifyBundle rejects downloads that are not shapefile-bearing zip
// archives, such as an HTML error page served with status 200.
func verifyBundle(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("sizing bundle: %w", err)
	}
	kind, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("inspecting bundle: %w", err)
	}
	if kind != format.ShapefileArchive {
		return fmt.Errorf("bundle is %s, not a shapefile archive", kind)
	}
	return nil
}

// download fetches the bundle to a temp file with retries. The cleanup
// func removes the temp file and must be called once on success.
func (c *Client) download(ctx context.Context) (string, func(), error) {
	tmp, err := os.CreateTemp("", "geofabrik-*.shp.zip")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	url := c.BundleURL()
	c.logger.Info().Str("url", url).Msg("downloading bundle")

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt*500) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				cleanup()
				return "", nil, ctx.Err()
			}
		}

		if err := c.fetch(ctx, url, tmp); err != nil {
			var terminal *statusError
			if errors.As(err, &terminal) {
				cleanup()
				return "", nil, fmt.Errorf("downloading bundle: %w", err)
			}
			lastErr = err
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("bundle download failed")
			continue
		}
		return tmp.Name(), cleanup, nil
	}

	cleanup()
	return "", nil, fmt.Errorf("downloading bundle after %d attempts: %w", c.retries+1, lastErr)
}

// fetch performs a single download attempt into f, rewinding first so a
// retry starts clean.
func (c *Client) fetch(ctx context.Context, url string, f *os.File) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding temp file: %w", err)
	}
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncating temp file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		return &statusError{status: resp.Status}
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return nil
}

// statusError is a terminal HTTP status that retrying will not fix,
// such as a 404 for an unknown region.
type statusError struct {
	status string
}

func (e *statusError) Error() string {
	return "unexpected status " + e.status
}

// extractLayer copies the layer's files out of the bundle into destDir,
// each installed atomically. Bundles may nest entries in directories.
func extractLayer(bundlePath, layer, destDir string) error {
	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer zr.Close()

	found := false
	for _, f := range zr.File {
		base := path.Base(f.Name)
		ext := strings.ToLower(path.Ext(base))
		if !strings.EqualFold(strings.TrimSuffix(base, ext), layer) || !isSidecar(ext) {
			continue
		}
		if err := extractFile(f, filepath.Join(destDir, layer+ext)); err != nil {
			return err
		}
		if ext == ".shp" {
			found = true
		}
	}

	if !found {
		return fmt.Errorf("bundle has no %s.shp", layer)
	}
	return nil
}

func isSidecar(ext string) bool {
	for _, e := range sidecarExts {
		if e == ext {
			return true
		}
	}
	return false
}

// extractFile installs one bundle entry at dest.
func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	pending, err := renameio.NewPendingFile(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, rc); err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return pending.CloseAtomicallyReplace()
}
