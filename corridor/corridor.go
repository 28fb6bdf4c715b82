// Package corridor models the northbound highway corridor as a small
// weighted city graph with shortest path queries.
package corridor

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"github.com/rmonterde/fieldops/geo"
)

var (
	// ErrUnknownCity reports a city name absent from the graph.
	ErrUnknownCity = errors.New("unknown city")
	// ErrNoRoute reports that no sequence of edges joins the cities.
	ErrNoRoute = errors.New("no route between cities")
)

// City is a named node with a map position.
type City struct {
	Name string
	Pos  geo.LatLon
}

// Leg is one weighted edge, in km.
type Leg struct {
	From string
	To   string
	Km   float64
}

// Route is a path through the graph. Legs sum to TotalKm.
type Route struct {
	Cities  []City
	Legs    []Leg
	TotalKm float64
}

// Graph is an undirected weighted city graph.
type Graph struct {
	cities map[string]City
	order  []string
	edges  map[string]map[string]float64
	legs   []Leg
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		cities: make(map[string]City),
		edges:  make(map[string]map[string]float64),
	}
}

// AddCity inserts a city, replacing its position if already present.
func (g *Graph) AddCity(c City) {
	if _, ok := g.cities[c.Name]; !ok {
		g.order = append(g.order, c.Name)
	}
	g.cities[c.Name] = c
}

// Connect adds an undirected edge between two known cities. Connecting
// the same pair again replaces the weight.
func (g *Graph) Connect(a, b string, km float64) error {
	for _, name := range []string{a, b} {
		if _, ok := g.cities[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCity, name)
		}
	}

	if g.edges[a] == nil {
		g.edges[a] = make(map[string]float64)
	}
	if g.edges[b] == nil {
		g.edges[b] = make(map[string]float64)
	}
	_, known := g.edges[a][b]
	g.edges[a][b] = km
	g.edges[b][a] = km

	if known {
		for i, leg := range g.legs {
			if (leg.From == a && leg.To == b) || (leg.From == b && leg.To == a) {
				g.legs[i].Km = km
			}
		}
	} else {
		g.legs = append(g.legs, Leg{From: a, To: b, Km: km})
	}
	return nil
}

// City looks up a city by name.
func (g *Graph) City(name string) (City, bool) {
	c, ok := g.cities[name]
	return c, ok
}

// Cities returns all cities in insertion order.
func (g *Graph) Cities() []City {
	out := make([]City, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.cities[name])
	}
	return out
}

// Edges returns each undirected edge once, in insertion order.
func (g *Graph) Edges() []Leg {
	out := make([]Leg, len(g.legs))
	copy(out, g.legs)
	return out
}

// ShortestPath runs Dijkstra between two cities and returns the
// cheapest route by total km.
func (g *Graph) ShortestPath(from, to string) (Route, error) {
	for _, name := range []string{from, to} {
		if _, ok := g.cities[name]; !ok {
			return Route{}, fmt.Errorf("%w: %s", ErrUnknownCity, name)
		}
	}
	if from == to {
		return Route{Cities: []City{g.cities[from]}}, nil
	}

	dist := map[string]float64{from: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{city: from, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		current := item.city
		if current == to {
			return g.buildRoute(cameFrom, from, to), nil
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		for _, neighbor := range g.neighbors(current) {
			tentative := dist[current] + g.edges[current][neighbor]
			if old, ok := dist[neighbor]; !ok || tentative < old {
				cameFrom[neighbor] = current
				dist[neighbor] = tentative
				heap.Push(pq, &pqItem{city: neighbor, dist: tentative})
			}
		}
	}

	return Route{}, fmt.Errorf("%w: from %s to %s", ErrNoRoute, from, to)
}

// neighbors returns the adjacent city names in stable order.
func (g *Graph) neighbors(name string) []string {
	out := make([]string, 0, len(g.edges[name]))
	for n := range g.edges[name] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// buildRoute walks the predecessor map back from the destination.
func (g *Graph) buildRoute(cameFrom map[string]string, from, to string) Route {
	var names []string
	for current := to; ; {
		names = append([]string{current}, names...)
		if current == from {
			break
		}
		current = cameFrom[current]
	}

	route := Route{Cities: make([]City, 0, len(names))}
	for i, name := range names {
		route.Cities = append(route.Cities, g.cities[name])
		if i == 0 {
			continue
		}
		km := g.edges[names[i-1]][name]
		route.Legs = append(route.Legs, Leg{From: names[i-1], To: name, Km: km})
		route.TotalKm += km
	}
	return route
}

// ============================================================================
// Priority queue
// ============================================================================

type pqItem struct {
	city string
	dist float64
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// ============================================================================
// Default corridor
// ============================================================================

// DefaultCorridor returns the six-city northbound corridor from the
// Guatemalan border to the US border.
func DefaultCorridor() *Graph {
	g := NewGraph()
	for _, c := range []City{
		{Name: "Tapachula", Pos: geo.LatLon{Lat: 14.9031, Lon: -92.2575}},
		{Name: "Oaxaca", Pos: geo.LatLon{Lat: 17.0732, Lon: -96.7266}},
		{Name: "Puebla", Pos: geo.LatLon{Lat: 19.0414, Lon: -98.2063}},
		{Name: "Mexico City", Pos: geo.LatLon{Lat: 19.4326, Lon: -99.1332}},
		{Name: "Chihuahua", Pos: geo.LatLon{Lat: 28.6320, Lon: -106.0691}},
		{Name: "Ciudad Juárez", Pos: geo.LatLon{Lat: 31.6904, Lon: -106.4245}},
	} {
		g.AddCity(c)
	}

	for _, leg := range []Leg{
		{From: "Tapachula", To: "Oaxaca", Km: 700},
		{From: "Oaxaca", To: "Puebla", Km: 340},
		{From: "Puebla", To: "Mexico City", Km: 130},
		{From: "Mexico City", To: "Chihuahua", Km: 1440},
		{From: "Chihuahua", To: "Ciudad Juárez", Km: 360},
	} {
		if err := g.Connect(leg.From, leg.To, leg.Km); err != nil {
			panic(err)
		}
	}
	return g
}
