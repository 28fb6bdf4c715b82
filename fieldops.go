// Package fieldops plans and visualizes a convoy corridor across Mexico.
// It writes route planning reports, renders corridor and satellite maps
// from Geofabrik road data and Sentinel Hub imagery, and runs a pulsed
// laser heating simulation over a traced optical train.
//
// Basic usage:
//
//	tk := fieldops.New()
//	path, err := tk.ConvoyReport("")
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	path, err := fieldops.New().
//	    WithCacheDir("/var/cache/fieldops").
//	    WithCredentials(id, clientID, secret).
//	    SatelliteView(ctx, fieldops.DefaultViewpoint, 1024, "")
//
// For finer control the underlying packages (corridor, geofabrik,
// sentinel, mapview, optics, lasersim) are available directly.
package fieldops

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rmonterde/fieldops/geo"
	"github.com/rmonterde/fieldops/internal/log"
)

// DefaultViewpoint is the Palacio de Puebla, the center of the stock
// satellite view.
var DefaultViewpoint = geo.LatLon{Lat: 19.0433, Lon: -98.1981}

// DefaultCacheDir is the root under which downloaded road bundles and
// satellite tiles are kept.
const DefaultCacheDir = "data"

// Toolkit bundles the configured clients behind the high level
// operations. Each configuration method returns a new Toolkit instance,
// making it safe for concurrent use and allowing method chaining.
type Toolkit struct {
	cacheDir     string
	httpClient   *http.Client
	logger       zerolog.Logger
	instanceID   string
	clientID     string
	clientSecret string
}

// New returns a Toolkit with default settings: the data cache directory,
// the shared logger and Sentinel Hub credentials taken from the
// environment when first needed.
//
// Example:
//
//	res, err := fieldops.New().LaserReport(250, true)
func New() *Toolkit {
	return &Toolkit{
		cacheDir: DefaultCacheDir,
		logger:   log.WithComponent("toolkit"),
	}
}

// clone creates a copy of the Toolkit so configuration methods never
// mutate the receiver.
func (t *Toolkit) clone() *Toolkit {
	copied := *t
	return &copied
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	path := fieldops.Must(fieldops.New().ConvoyReport(""))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
