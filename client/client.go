package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/webclient/client/throttle"
)

const tracerName = "github.com/adamwoolhether/webclient/client"

// Client is the HTTP facade. It owns the header store, the default
// RequestConfig and the in-flight request counter. Each raw request
// builds its own *http.Client and releases it when the response is closed.
type Client struct {
	rt                http.RoundTripper
	ownsTransport     bool
	noFollowRedirects bool
	baseURL           *url.URL
	headers           *Headers
	defaultConfig     atomic.Pointer[RequestConfig]
	requests          atomic.Int64
	logger            *slog.Logger
	tracer            trace.Tracer
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		headers: NewHeaders(),
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer(tracerName),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracerProvider != nil {
		client.tracer = opts.tracerProvider.Tracer(tracerName)
	}

	client.noFollowRedirects = opts.noFollowRedirects
	client.baseURL = opts.baseURL

	for k, vs := range opts.headers {
		for _, v := range vs {
			client.headers.Add(k, v)
		}
	}

	cfg := DefaultRequestConfig()
	if opts.defaultConfig != nil {
		cfg = *opts.defaultConfig
	}
	client.defaultConfig.Store(&cfg)

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	default:
		transport = newTransport()
		client.ownsTransport = true
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.rt = transport

	return client, nil
}

// newTransport clones the default transport with keep-alives disabled,
// so no connection outlives the request that opened it.
func newTransport() *http.Transport {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}

	t := base.Clone()
	t.DisableKeepAlives = true

	return t
}

// Headers returns the mutable header store applied to every request.
func (c *Client) Headers() *Headers {
	return c.headers
}

// DefaultConfig returns a copy of the config used when a call passes nil.
func (c *Client) DefaultConfig() RequestConfig {
	return *c.defaultConfig.Load()
}

// SetDefaultConfig validates and replaces the default config. Calls
// already in flight keep the config they started with.
func (c *Client) SetDefaultConfig(cfg RequestConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.defaultConfig.Store(&cfg)

	return nil
}

// RequestCount reports how many raw requests are in flight. A request
// stays in flight until its Response is closed, which the data transfer
// operations do only after the body has been fully read.
func (c *Client) RequestCount() int64 {
	return c.requests.Load()
}

// IsBusy reports whether any raw request is in flight.
func (c *Client) IsBusy() bool {
	return c.requests.Load() > 0
}

// CancelAsync always returns ErrNotImplemented: a raw request cannot be
// interrupted once it has begun.
func (c *Client) CancelAsync() error {
	return fmt.Errorf("cancel async: %w", ErrNotImplemented)
}

// Close is a no-op. Each raw request releases its own transport client,
// so there is nothing held between calls.
func (c *Client) Close() error {
	c.logger.Debug("close called on client; nothing to release")
	return nil
}
