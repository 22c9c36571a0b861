package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Response is the result of a raw request. Close must be called to
// release the body and the per-call transport client. The request counts
// as in flight until then.
type Response struct {
	*http.Response

	// RequestID identifies the request in log records and spans.
	RequestID string

	release func()
	once    sync.Once
	err     error
}

// Close closes the body, releases the transport client that issued the
// request and stops counting it as in flight. It is safe to call more
// than once.
func (r *Response) Close() error {
	r.once.Do(func() {
		r.err = r.Body.Close()
		r.release()
	})

	return r.err
}

// RawGet issues a GET to address carrying the header store.
// Transport failures are returned unmodified.
func (c *Client) RawGet(ctx context.Context, address string) (*Response, error) {
	return c.raw(ctx, http.MethodGet, address, nil, "")
}

// RawPost issues a POST with body sent as-is. A nil body is sent empty.
func (c *Client) RawPost(ctx context.Context, address string, body []byte) (*Response, error) {
	return c.raw(ctx, http.MethodPost, address, body, "")
}

// RawPostString issues a POST with body as text. Content-Type defaults to
// text/plain; charset=utf-8 unless the header store sets one.
func (c *Client) RawPostString(ctx context.Context, address, body string) (*Response, error) {
	return c.raw(ctx, http.MethodPost, address, []byte(body), "text/plain; charset=utf-8")
}

func (c *Client) raw(ctx context.Context, method, address string, body []byte, contentType string) (*Response, error) {
	u, err := c.resolveAddress(address)
	if err != nil {
		return nil, err
	}

	// Cancellation is not supported; values such as the parent span still flow.
	ctx = context.WithoutCancel(ctx)

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "webclient "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", u.String()),
			attribute.String("webclient.request_id", requestID),
		),
	)
	defer span.End()

	var reqBody io.Reader = http.NoBody
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, &AddressError{Address: address, Detail: err.Error()}
	}

	c.headers.applyTo(req.Header)
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	log := c.logger.With("request_id", requestID, "method", method, "url", u.Redacted())
	log.Debug("request started")

	hc := c.newTransportClient()
	start := time.Now()

	resp, err := c.roundTrip(hc, req)
	if err != nil {
		c.releaseTransportClient(hc)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug("request failed", "since", time.Since(start).String(), "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	log.Debug("request completed", "status", resp.StatusCode, "since", time.Since(start).String())

	release := func() {
		c.requests.Add(-1)
		c.releaseTransportClient(hc)
	}

	return &Response{
		Response:  resp,
		RequestID: requestID,
		release:   release,
	}, nil
}

// roundTrip counts the request as in flight. On success the count is held
// until the caller closes the Response, so a body still being received
// keeps the client busy.
func (c *Client) roundTrip(hc *http.Client, req *http.Request) (*http.Response, error) {
	c.requests.Add(1)

	resp, err := hc.Do(req)
	if err != nil {
		c.requests.Add(-1)
		return nil, err
	}

	return resp, nil
}

func (c *Client) newTransportClient() *http.Client {
	hc := &http.Client{Transport: c.rt}
	if c.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return hc
}

// releaseTransportClient drops idle connections of a transport the
// client created. A caller-supplied transport is left alone.
func (c *Client) releaseTransportClient(hc *http.Client) {
	if c.ownsTransport {
		hc.CloseIdleConnections()
	}
}

// closeResponse is used in defers where a close failure can only be logged.
func (c *Client) closeResponse(resp *Response) {
	if err := resp.Close(); err != nil {
		c.logger.Error("failed to close response body", "request_id", resp.RequestID, "error", err)
	}
}

// resolveAddress turns address into an absolute http(s) URL, resolving
// relative references against the base address when one is set.
func (c *Client) resolveAddress(address string) (*url.URL, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, &AddressError{Address: address, Detail: "address is empty"}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, &AddressError{Address: address, Detail: err.Error()}
	}

	if !u.IsAbs() && c.baseURL != nil {
		u = c.baseURL.ResolveReference(u)
	}

	switch {
	case !u.IsAbs():
		return nil, &AddressError{Address: address, Detail: "address is not absolute and no base address is set"}
	case u.Scheme != "http" && u.Scheme != "https":
		return nil, &AddressError{Address: address, Detail: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	case u.Host == "":
		return nil, &AddressError{Address: address, Detail: "address has no host"}
	}

	return u, nil
}

// responseLogger returns a logger annotated with resp's request id.
func (c *Client) responseLogger(resp *Response) *slog.Logger {
	return c.logger.With("request_id", resp.RequestID)
}
