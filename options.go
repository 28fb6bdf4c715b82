package fieldops

import (
	"net/http"

	"github.com/rs/zerolog"
)

// WithCacheDir sets the root directory for downloaded road bundles and
// satellite tiles.
//
// Example:
//
//	tk := fieldops.New().WithCacheDir("/var/cache/fieldops")
func (t *Toolkit) WithCacheDir(dir string) *Toolkit {
	copied := t.clone()
	copied.cacheDir = dir
	return copied
}

// WithLogger replaces the toolkit logger.
func (t *Toolkit) WithLogger(logger zerolog.Logger) *Toolkit {
	copied := t.clone()
	copied.logger = logger
	return copied
}

// WithCredentials sets the Sentinel Hub credentials explicitly instead
// of reading them from the environment.
//
// Example:
//
//	tk := fieldops.New().WithCredentials(instanceID, clientID, secret)
func (t *Toolkit) WithCredentials(instanceID, clientID, clientSecret string) *Toolkit {
	copied := t.clone()
	copied.instanceID = instanceID
	copied.clientID = clientID
	copied.clientSecret = clientSecret
	return copied
}

// WithHTTPClient replaces the HTTP client used for downloads and
// imagery requests. Useful for tests and custom timeouts.
func (t *Toolkit) WithHTTPClient(client *http.Client) *Toolkit {
	copied := t.clone()
	copied.httpClient = client
	return copied
}
