package session

import (
	"net/http"
	"time"

	"github.com/initializ/untis/client"
	"github.com/initializ/untis/logging"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	cache         client.CacheConfig
	noCache       bool
	httpClient    *http.Client
	timeout       time.Duration
	logger        logging.Logger
	autoReconnect bool
}

// WithCache enables response caching with the given settings. Zero fields
// fall back to the client defaults.
func WithCache(cfg client.CacheConfig) Option {
	return func(o *options) {
		o.cache = cfg
		o.noCache = false
	}
}

// WithoutCache sends every call to the server.
func WithoutCache() Option {
	return func(o *options) { o.noCache = true }
}

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger for the session, its client and its cache.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAutoReconnect makes calls that fail because the server expired the
// session log in again and retry once.
func WithAutoReconnect(enabled bool) Option {
	return func(o *options) { o.autoReconnect = enabled }
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.OrNop(o.logger)
	if o.cache.Logger == nil {
		o.cache.Logger = o.logger
	}
	return o
}
