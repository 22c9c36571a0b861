package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/webclient/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	rt                http.RoundTripper
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracerProvider    trace.TracerProvider
	baseURL           *url.URL
	headers           map[string][]string
	defaultConfig     *RequestConfig
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
// The client never closes a transport it did not create.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
// It takes precedence over a User-Agent in the header store.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracerProvider records a client span for every raw request.
// A no-op tracer is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		c.tracerProvider = tp
		return nil
	}
}

// WithBaseAddress sets the absolute http(s) URL that relative addresses
// are resolved against.
func WithBaseAddress(address string) Option {
	return func(c *options) error {
		u, err := url.Parse(address)
		if err != nil {
			return fmt.Errorf("parsing base address: %w", err)
		}
		if !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("base address %q must be an absolute http(s) URL", address)
		}
		c.baseURL = u
		return nil
	}
}

// WithHeaders seeds the header store. Headers can still be changed
// afterwards through [Client.Headers].
func WithHeaders(headers map[string][]string) Option {
	return func(c *options) error {
		c.headers = headers
		return nil
	}
}

// WithDefaultConfig replaces [DefaultRequestConfig] as the config used by
// calls that pass a nil *RequestConfig.
func WithDefaultConfig(cfg RequestConfig) Option {
	return func(c *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.defaultConfig = &cfg
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

func (ua userAgent) CloseIdleConnections() {
	if ci, ok := ua.base.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}
