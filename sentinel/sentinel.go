// Package sentinel renders true color satellite tiles through the
// Sentinel Hub Process API.
package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rmonterde/fieldops/geo"
	"github.com/rmonterde/fieldops/internal/log"
)

const (
	// DefaultBaseURL is the public Sentinel Hub deployment.
	DefaultBaseURL = "https://services.sentinel-hub.com"
	// DefaultCacheDir is where downloaded tiles are kept.
	DefaultCacheDir = "data/sentinel_images"
	// DefaultCollection is the imagery catalogue queried by default.
	DefaultCollection = "sentinel-2-l2a"

	// DefaultTileSize is the tile edge in pixels for overview requests.
	DefaultTileSize = 1024
	// HighResTileSize is the tile edge in pixels for detail requests.
	HighResTileSize = 2048

	tokenPath   = "/oauth/token"
	processPath = "/api/v1/process"

	defaultRateLimit = rate.Limit(3)
	defaultRateBurst = 3
	tokenExpirySkew  = 60 * time.Second

	// processRetries is the number of extra attempts after the first
	// for retryable upstream failures.
	processRetries = 2
)

// trueColorEvalscript maps the visible bands to an RGB image with a
// fixed brightness gain.
const trueColorEvalscript = `//VERSION=3
function setup() {
    return {
        input: ["B04", "B03", "B02"],
        output: { bands: 3 }
    };
}
function evaluatePixel(sample) {
    return [sample.B04 * 2.5, sample.B03 * 2.5, sample.B02 * 2.5];
}`

// Default capture window for imagery requests.
var (
	DefaultFrom = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultTo   = time.Date(2025, time.April, 12, 23, 59, 59, 0, time.UTC)
)

// ErrMissingCredentials reports absent Sentinel Hub configuration.
var ErrMissingCredentials = errors.New("missing Sentinel Hub credentials")

// Config captures credentials and options for a Client. Zero values
// pick defaults.
type Config struct {
	InstanceID   string
	ClientID     string
	ClientSecret string
	BaseURL      string
	CacheDir     string
	Client       *http.Client
	RateLimit    rate.Limit
	RateBurst    int
}

// ConfigFromEnv loads credentials from the environment, reading a .env
// file first if one is present. SENTINEL_INSTANCE_ID,
// SENTINEL_CLIENT_ID and SENTINEL_CLIENT_SECRET are all required.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		InstanceID:   os.Getenv("SENTINEL_INSTANCE_ID"),
		ClientID:     os.Getenv("SENTINEL_CLIENT_ID"),
		ClientSecret: os.Getenv("SENTINEL_CLIENT_SECRET"),
	}

	var missing []string
	if cfg.InstanceID == "" {
		missing = append(missing, "SENTINEL_INSTANCE_ID")
	}
	if cfg.ClientID == "" {
		missing = append(missing, "SENTINEL_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "SENTINEL_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s not set", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return cfg, nil
}

// Client requests imagery from Sentinel Hub, caching tiles on disk and
// OAuth tokens in memory.
type Client struct {
	baseURL  string
	cacheDir string
	id       string
	secret   string
	http     *http.Client
	limiter  *rate.Limiter
	logger   zerolog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		cacheDir: cfg.CacheDir,
		id:       cfg.ClientID,
		secret:   cfg.ClientSecret,
		http:     cfg.Client,
		logger:   log.WithComponent("sentinel"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.cacheDir == "" {
		c.cacheDir = DefaultCacheDir
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 2 * time.Minute}
	}
	limit, burst := cfg.RateLimit, cfg.RateBurst
	if limit == 0 {
		limit = defaultRateLimit
	}
	if burst == 0 {
		burst = defaultRateBurst
	}
	c.limiter = rate.NewLimiter(limit, burst)
	return c
}

// TileRequest describes one imagery tile. Zero fields other than BBox
// pick defaults.
type TileRequest struct {
	BBox       geo.BBox
	Width      int
	Height     int
	Collection string
	From       time.Time
	To         time.Time
}

func (r TileRequest) normalized() TileRequest {
	if r.Width == 0 {
		r.Width = DefaultTileSize
	}
	if r.Height == 0 {
		r.Height = DefaultTileSize
	}
	if r.Collection == "" {
		r.Collection = DefaultCollection
	}
	if r.From.IsZero() {
		r.From = DefaultFrom
	}
	if r.To.IsZero() {
		r.To = DefaultTo
	}
	return r
}

// CacheKey names the tile in the on-disk cache. Center, extent and
// pixel size all participate so distinct requests never collide.
func (r TileRequest) CacheKey() string {
	r = r.normalized()
	center := r.BBox.Center()
	return fmt.Sprintf("tile_%.4f_%.4f_%.4fx%.4f_%dx%d.png",
		center.Lat, center.Lon, r.BBox.Width(), r.BBox.Height(), r.Width, r.Height)
}

// TrueColor fetches a true color PNG tile for the request, serving from
// the on-disk cache when possible.
func (c *Client) TrueColor(ctx context.Context, req TileRequest) ([]byte, error) {
	req = req.normalized()

	cached := filepath.Join(c.cacheDir, req.CacheKey())
	if data, err := os.ReadFile(cached); err == nil {
		c.logger.Debug().Str("path", cached).Msg("tile cache hit")
		return data, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	data, err := c.process(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.store(cached, data); err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("path", cached).
		Int("width", req.Width).
		Int("height", req.Height).
		Msg("tile downloaded")
	return data, nil
}

// Process API request body.
type processRequest struct {
	Input      processInput  `json:"input"`
	Output     processOutput `json:"output"`
	Evalscript string        `json:"evalscript"`
}

type processInput struct {
	Bounds processBounds `json:"bounds"`
	Data   []processData `json:"data"`
}

type processBounds struct {
	BBox [4]float64 `json:"bbox"`
}

type processData struct {
	Type       string        `json:"type"`
	DataFilter processFilter `json:"dataFilter"`
}

type processFilter struct {
	TimeRange processTimeRange `json:"timeRange"`
}

type processTimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type processOutput struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Responses []processResponse `json:"responses"`
}

type processResponse struct {
	Identifier string        `json:"identifier"`
	Format     processFormat `json:"format"`
}

type processFormat struct {
	Type string `json:"type"`
}

// process performs one Process API call and returns the PNG bytes.
func (c *Client) process(ctx context.Context, req TileRequest) ([]byte, error) {
	body := processRequest{
		Input: processInput{
			Bounds: processBounds{
				BBox: [4]float64{req.BBox.MinLon, req.BBox.MinLat, req.BBox.MaxLon, req.BBox.MaxLat},
			},
			Data: []processData{{
				Type: req.Collection,
				DataFilter: processFilter{
					TimeRange: processTimeRange{
						From: req.From.Format(time.RFC3339),
						To:   req.To.Format(time.RFC3339),
					},
				},
			}},
		},
		Output: processOutput{
			Width:  req.Width,
			Height: req.Height,
			Responses: []processResponse{{
				Identifier: "default",
				Format:     processFormat{Type: "image/png"},
			}},
		},
		Evalscript: trueColorEvalscript,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding process request: %w", err)
	}

	refreshed := false
	var lastErr error
	for attempt := 0; attempt <= processRetries; attempt++ {
		data, status, err := c.processOnce(ctx, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err

		switch {
		case status == http.StatusUnauthorized && !refreshed:
			// Stale token. Drop it and retry once with a fresh one.
			refreshed = true
			c.dropToken()
			c.logger.Debug().Msg("retrying process with a fresh token")
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			backoff := time.Duration((attempt+1)*(attempt+1)*500) * time.Millisecond
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("process request failed")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("process request after %d attempts: %w", processRetries+1, lastErr)
}

// processOnce performs a single Process API call. The returned status
// is the HTTP code on an upstream error, zero otherwise.
func (c *Client) processOnce(ctx context.Context, payload []byte) ([]byte, int, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPath, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("building process request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/png")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("process request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, apiError("process request", resp)
	}

	// An error page served with status 200 must not reach the tile cache.
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/png") {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("process request returned %q, not image/png: %s", ct, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading tile: %w", err)
	}
	return data, 0, nil
}

// dropToken discards the cached token so the next request fetches a
// fresh one.
func (c *Client) dropToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// accessToken returns a cached OAuth token, requesting a fresh one via
// the client credentials grant when the cache is empty or near expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.id)
	form.Set("client_secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("token request", resp)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("token response has no access_token")
	}

	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySkew)
	c.logger.Debug().Int("expires_in", tok.ExpiresIn).Msg("token refreshed")
	return c.token, nil
}

// store writes a tile into the cache atomically.
func (c *Client) store(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating tile cache dir: %w", err)
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("creating pending tile file: %w", err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("writing tile: %w", err)
	}
	return pending.CloseAtomicallyReplace()
}

// apiError summarizes a non-200 response, quoting a trimmed body.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s failed: %s", op, resp.Status)
	}
	return fmt.Errorf("%s failed: %s: %s", op, resp.Status, msg)
}
