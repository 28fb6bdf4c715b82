// Package mapview composes roads, corridor graphs, routes, markers,
// and satellite underlays into one rendered map.
package mapview

import (
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog"

	"github.com/rmonterde/fieldops/corridor"
	"github.com/rmonterde/fieldops/geo"
	"github.com/rmonterde/fieldops/internal/log"
	"github.com/rmonterde/fieldops/render"
	"github.com/rmonterde/fieldops/shapefile"
)

// Drawing styles for composed layers.
const (
	satelliteAlpha = 0.9
	roadWidth      = 1.5
	roadAlpha      = 0.7
	edgeWidth      = 2
	routeWidth     = 3
	cityDotSize    = 8
	gridAlpha      = 0.3
	gridDivisions  = 6
)

// Legend labels for composed layers.
const (
	legendRoads  = "Carreteras"
	legendCities = "Ciudades"
	legendRoute  = "Ruta más corta"
)

type marker struct {
	at    geo.LatLon
	label string
	style render.MarkerStyle
}

// Builder assembles one map. Configuration methods return a new
// Builder, so a base view can be shared and specialized.
type Builder struct {
	world  geo.BBox
	w, h   int
	roads  *shapefile.Layer
	sat    image.Image
	graph  *corridor.Graph
	route  *corridor.Route
	marks  []marker
	title  string
	grid   bool
	logger zerolog.Logger
}

// New creates a builder for a map spanning the world box at the given
// pixel size. The grid starts enabled.
func New(world geo.BBox, w, h int) *Builder {
	return &Builder{
		world:  world,
		w:      w,
		h:      h,
		grid:   true,
		logger: log.WithComponent("mapview"),
	}
}

// clone creates a copy of the builder with its own marker slice.
func (b *Builder) clone() *Builder {
	nb := *b
	if b.marks != nil {
		nb.marks = make([]marker, len(b.marks))
		copy(nb.marks, b.marks)
	}
	return &nb
}

// ============================================================================
// Configuration Methods (return new Builder instance)
// ============================================================================

// WithRoads adds a road layer, drawn dark green and clipped to the
// world box.
//
// Example:
//
//	view := mapview.New(box, 1024, 1024).WithRoads(roads)
func (b *Builder) WithRoads(layer *shapefile.Layer) *Builder {
	nb := b.clone()
	nb.roads = layer
	return nb
}

// WithSatellite adds an imagery underlay scaled to the canvas.
func (b *Builder) WithSatellite(img image.Image) *Builder {
	nb := b.clone()
	nb.sat = img
	return nb
}

// WithGraph adds a city graph, drawn as gray edges with labeled dots.
func (b *Builder) WithGraph(g *corridor.Graph) *Builder {
	nb := b.clone()
	nb.graph = g
	return nb
}

// WithRoute highlights a route over the graph edges.
//
// Example:
//
//	route, _ := graph.ShortestPath("Tapachula", "Ciudad Juárez")
//	view := mapview.New(box, 1024, 1024).WithGraph(graph).WithRoute(route)
func (b *Builder) WithRoute(r corridor.Route) *Builder {
	nb := b.clone()
	nb.route = &r
	return nb
}

// WithMarker adds a labeled point marker. Multiple calls accumulate.
func (b *Builder) WithMarker(at geo.LatLon, label string, style render.MarkerStyle) *Builder {
	nb := b.clone()
	nb.marks = append(nb.marks, marker{at: at, label: label, style: style})
	return nb
}

// WithTitle sets the centered title text.
func (b *Builder) WithTitle(title string) *Builder {
	nb := b.clone()
	nb.title = title
	return nb
}

// WithGrid toggles the dashed coordinate grid.
func (b *Builder) WithGrid(on bool) *Builder {
	nb := b.clone()
	nb.grid = on
	return nb
}

// ============================================================================
// Rendering
// ============================================================================

// Render draws every configured layer onto a fresh canvas. An empty
// builder yields a blank canvas, not an error.
func (b *Builder) Render() (*render.Canvas, error) {
	c := render.NewCanvas(b.w, b.h, b.world)

	if b.sat != nil {
		c.Underlay(b.sat, satelliteAlpha)
	}

	roadCount := 0
	if b.roads != nil {
		clipped := b.roads.Clip(b.world)
		roadCount = clipped.Len()
		for _, rec := range clipped.Records {
			if rec.Line == nil {
				continue
			}
			for _, part := range rec.Line.Parts {
				c.Polyline(lonLatPoints(part), render.DarkGreen, roadWidth, roadAlpha)
			}
		}
	}

	if b.graph != nil {
		for _, leg := range b.graph.Edges() {
			from, _ := b.graph.City(leg.From)
			to, _ := b.graph.City(leg.To)
			c.Polyline([][2]float64{
				{from.Pos.Lon, from.Pos.Lat},
				{to.Pos.Lon, to.Pos.Lat},
			}, render.Gray, edgeWidth, 1)
		}
	}

	if b.route != nil && len(b.route.Cities) > 1 {
		pts := make([][2]float64, len(b.route.Cities))
		for i, city := range b.route.Cities {
			pts[i] = [2]float64{city.Pos.Lon, city.Pos.Lat}
		}
		c.Polyline(pts, render.Red, routeWidth, 1)
	}

	if b.graph != nil {
		for _, city := range b.graph.Cities() {
			c.Marker(city.Pos.Lon, city.Pos.Lat, render.Dot(cityDotSize, render.SteelBlue))
			c.Label(city.Pos.Lon, city.Pos.Lat, city.Name, render.Black)
		}
	}

	for _, m := range b.marks {
		c.Marker(m.at.Lon, m.at.Lat, m.style)
		if m.label != "" {
			c.Label(m.at.Lon, m.at.Lat, m.label, labelColor(m.style))
		}
	}

	if b.grid {
		c.Grid(gridStep(b.world), render.Gray, gridAlpha)
	}

	if entries := b.legend(); len(entries) > 0 {
		c.Legend(entries, render.TopLeft)
	}
	c.Title(b.title)

	b.logger.Debug().
		Int("roads", roadCount).
		Int("markers", len(b.marks)).
		Bool("satellite", b.sat != nil).
		Msg("map rendered")
	return c, nil
}

// SavePNG renders the map and writes it atomically to path.
func (b *Builder) SavePNG(path string) error {
	c, err := b.Render()
	if err != nil {
		return err
	}
	if err := c.SavePNG(path); err != nil {
		return err
	}
	b.logger.Info().Str("path", path).Msg("map saved")
	return nil
}

// legend lists what the view contains, in draw order.
func (b *Builder) legend() []render.LegendEntry {
	var entries []render.LegendEntry
	for _, m := range b.marks {
		if m.label != "" {
			entries = append(entries, render.LegendEntry{Swatch: m.style.Fill, Label: m.label})
		}
	}
	if b.roads != nil {
		entries = append(entries, render.LegendEntry{Swatch: render.DarkGreen, Label: legendRoads})
	}
	if b.graph != nil {
		entries = append(entries, render.LegendEntry{Swatch: render.SteelBlue, Label: legendCities})
	}
	if b.route != nil {
		entries = append(entries, render.LegendEntry{Swatch: render.Red, Label: legendRoute})
	}
	return entries
}

// labelColor keeps selection crosses labeled in their own color and
// everything else in black.
func labelColor(style render.MarkerStyle) color.Color {
	if style.Shape == render.ShapeCross && style.Fill != nil {
		return style.Fill
	}
	return render.Black
}

func lonLatPoints(part []geo.LatLon) [][2]float64 {
	pts := make([][2]float64, len(part))
	for i, p := range part {
		pts[i] = [2]float64{p.Lon, p.Lat}
	}
	return pts
}

// gridStep picks a round step size giving about gridDivisions lines
// across the wider world axis.
func gridStep(world geo.BBox) float64 {
	span := math.Max(world.Width(), world.Height())
	if span <= 0 {
		return 0
	}
	raw := span / gridDivisions
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
