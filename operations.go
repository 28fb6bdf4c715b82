package fieldops

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/rmonterde/fieldops/corridor"
	"github.com/rmonterde/fieldops/docx"
	"github.com/rmonterde/fieldops/geo"
	"github.com/rmonterde/fieldops/geofabrik"
	"github.com/rmonterde/fieldops/lasersim"
	"github.com/rmonterde/fieldops/mapview"
	"github.com/rmonterde/fieldops/optics"
	"github.com/rmonterde/fieldops/render"
	"github.com/rmonterde/fieldops/report"
	"github.com/rmonterde/fieldops/sentinel"
	"github.com/rmonterde/fieldops/shapefile"
)

// DefaultRouteMapFilename is where RouteMap saves its rendering unless
// told otherwise.
const DefaultRouteMapFilename = "route_map.png"

// ConvoyReport writes the stock route planning report as a .docx file
// and returns the path written. An empty path picks the default
// filename in the working directory.
//
// Example:
//
//	path, err := fieldops.New().ConvoyReport("")
func (t *Toolkit) ConvoyReport(path string) (string, error) {
	if path == "" {
		path = report.DefaultFilename
	}
	doc := report.DefaultPlan().Build()
	if err := docx.WriteFile(path, doc); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	t.logger.Info().Str("path", path).Msg("report written")
	return path, nil
}

// RouteMapOptions selects what RouteMap draws. Zero fields pick
// defaults: the full Tapachula to Ciudad Juárez corridor at 1024 pixels
// square, roads only.
type RouteMapOptions struct {
	From      string
	To        string
	Satellite bool
	Width     int
	Height    int
	OutPath   string
}

func (o RouteMapOptions) normalized() RouteMapOptions {
	if o.From == "" {
		o.From = "Tapachula"
	}
	if o.To == "" {
		o.To = "Ciudad Juárez"
	}
	if o.Width == 0 {
		o.Width = sentinel.DefaultTileSize
	}
	if o.Height == 0 {
		o.Height = sentinel.DefaultTileSize
	}
	if o.OutPath == "" {
		o.OutPath = DefaultRouteMapFilename
	}
	return o
}

// RouteMap renders the corridor graph with the shortest path between
// two cities over the cached road network, optionally on a satellite
// underlay, and saves the PNG. Roads and imagery load concurrently
// when both are needed.
func (t *Toolkit) RouteMap(ctx context.Context, opts RouteMapOptions) (string, error) {
	opts = opts.normalized()

	graph := corridor.DefaultCorridor()
	route, err := graph.ShortestPath(opts.From, opts.To)
	if err != nil {
		return "", err
	}

	world := corridorBounds(graph).Expand(1)

	var (
		roads *shapefile.Layer
		sat   image.Image
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		layer, err := t.roads(gctx, world)
		if err != nil {
			return err
		}
		roads = layer
		return nil
	})
	if opts.Satellite {
		eg.Go(func() error {
			img, err := t.tile(gctx, world, opts.Width, opts.Height)
			if err != nil {
				return err
			}
			sat = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}

	builder := mapview.New(world, opts.Width, opts.Height).
		WithRoads(roads).
		WithGraph(graph).
		WithRoute(route).
		WithTitle(fmt.Sprintf("Corredor %s - %s (%.0f km)", opts.From, opts.To, route.TotalKm))
	if sat != nil {
		builder = builder.WithSatellite(sat)
	}

	if err := builder.SavePNG(opts.OutPath); err != nil {
		return "", err
	}
	t.logger.Info().
		Str("path", opts.OutPath).
		Str("from", opts.From).
		Str("to", opts.To).
		Float64("km", route.TotalKm).
		Msg("route map saved")
	return opts.OutPath, nil
}

// SatelliteView fetches a true color tile centered on a point, overlays
// the clipped road network and a position marker, and saves the PNG.
// Size is the tile edge in pixels; the high resolution size covers a
// half width view for detail requests. An empty out derives the
// filename from the coordinates.
func (t *Toolkit) SatelliteView(ctx context.Context, center geo.LatLon, size int, out string) (string, error) {
	if size == 0 {
		size = sentinel.DefaultTileSize
	}
	delta := 0.009
	if size >= sentinel.HighResTileSize {
		delta = 0.0045
	}
	world := geo.Around(center, delta)

	var (
		roads *shapefile.Layer
		sat   image.Image
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		layer, err := t.roads(gctx, world)
		if err != nil {
			return err
		}
		roads = layer
		return nil
	})
	eg.Go(func() error {
		img, err := t.tile(gctx, world, size, size)
		if err != nil {
			return err
		}
		sat = img
		return nil
	})
	if err := eg.Wait(); err != nil {
		return "", err
	}

	label, style := "Selected Point", render.Cross(14)
	if center == DefaultViewpoint {
		label, style = "Palacio de Puebla", render.Star(16)
	}

	if out == "" {
		out = fmt.Sprintf("satellite_view_%.4f_%.4f.png", center.Lat, center.Lon)
	}
	err := mapview.New(world, size, size).
		WithSatellite(sat).
		WithRoads(roads).
		WithMarker(center, label, style).
		WithTitle(fmt.Sprintf("Vista satelital %.4f, %.4f", center.Lat, center.Lon)).
		WithGrid(false).
		SavePNG(out)
	if err != nil {
		return "", err
	}
	t.logger.Info().Str("path", out).Int("size", size).Msg("satellite view saved")
	return out, nil
}

// LaserReport traces the pump train, with or without the YAG crystal,
// and evaluates the heating and generation model at the given spark
// frequency.
func (t *Toolkit) LaserReport(frequency float64, crystal bool) (lasersim.Result, error) {
	sys := optics.DefaultPumpSystem()
	if !crystal {
		sys = optics.BareCavitySystem()
	}

	traces := sys.TraceGrid(optics.DefaultGridSize, optics.DefaultBeamRadius, optics.DefaultWavelength)
	spotMM := optics.SpotRadiusRMS(traces)
	if spotMM == 0 {
		// Analytic estimate for a nominal 100 mm train when no rays land.
		spotMM = optics.GaussianSpotRadius(optics.DefaultWavelength, 100, 2*optics.DefaultBeamRadius)
	}

	params := lasersim.DefaultParams()
	if frequency > 0 {
		params.Frequency = frequency
	}
	return lasersim.Evaluate(spotMM/1000, params)
}

// tile fetches one true color tile over the world box and decodes it.
func (t *Toolkit) tile(ctx context.Context, world geo.BBox, width, height int) (image.Image, error) {
	client, err := t.sentinelClient()
	if err != nil {
		return nil, err
	}
	data, err := client.TrueColor(ctx, sentinel.TileRequest{BBox: world, Width: width, Height: height})
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding tile: %w", err)
	}
	return img, nil
}

// roads loads the cached road network, filtered to drivable classes and
// clipped to the world box.
func (t *Toolkit) roads(ctx context.Context, world geo.BBox) (*shapefile.Layer, error) {
	client := geofabrik.New(geofabrik.Config{
		CacheDir: filepath.Join(t.cacheDir, "shapefiles"),
		Client:   t.httpClient,
	})
	shpPath, err := client.Roads(ctx)
	if err != nil {
		return nil, err
	}
	layer, err := shapefile.Open(shpPath)
	if err != nil {
		return nil, err
	}
	return layer.Filter(geofabrik.RoadClassField, geofabrik.MainRoadClasses...).Clip(world), nil
}

// sentinelClient builds the imagery client from explicit credentials or,
// when none were configured, from the environment.
func (t *Toolkit) sentinelClient() (*sentinel.Client, error) {
	cfg := sentinel.Config{
		InstanceID:   t.instanceID,
		ClientID:     t.clientID,
		ClientSecret: t.clientSecret,
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		envCfg, err := sentinel.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		cfg = envCfg
	}
	cfg.CacheDir = filepath.Join(t.cacheDir, "sentinel_images")
	cfg.Client = t.httpClient
	return sentinel.New(cfg), nil
}

// corridorBounds is the box enclosing every city in the graph.
func corridorBounds(g *corridor.Graph) geo.BBox {
	cities := g.Cities()
	box := geo.Around(cities[0].Pos, 0)
	for _, c := range cities[1:] {
		box = box.ExtendTo(c.Pos)
	}
	return box
}
