package client

import (
	"context"

	"github.com/adamwoolhether/webclient/client/async"
)

// Payload is the set of body types accepted by [Upload].
type Payload interface {
	[]byte | string
}

// UploadDataAsync POSTs payload to address and resolves to the response body.
// A nil cfg uses the client's default config.
func (c *Client) UploadDataAsync(ctx context.Context, address string, payload []byte, cfg *RequestConfig) *async.Result[[]byte] {
	return async.Go(ctx, func(ctx context.Context) ([]byte, error) {
		return c.uploadData(ctx, address, payload, cfg)
	})
}

// UploadData is the blocking form of [Client.UploadDataAsync].
func (c *Client) UploadData(ctx context.Context, address string, payload []byte, cfg *RequestConfig) ([]byte, error) {
	return c.UploadDataAsync(ctx, address, payload, cfg).Wait()
}

// UploadStringAsync sends payload as UTF-8 bytes and decodes the
// response body as UTF-8.
func (c *Client) UploadStringAsync(ctx context.Context, address, payload string, cfg *RequestConfig) *async.Result[string] {
	return async.Go(ctx, func(ctx context.Context) (string, error) {
		b, err := c.uploadData(ctx, address, []byte(payload), cfg)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}

// UploadString is the blocking form of [Client.UploadStringAsync].
func (c *Client) UploadString(ctx context.Context, address, payload string, cfg *RequestConfig) (string, error) {
	return c.UploadStringAsync(ctx, address, payload, cfg).Wait()
}

// UploadAsync dispatches to UploadDataAsync or UploadStringAsync based
// on the payload type; the result has the same type as the payload.
func UploadAsync[P Payload](ctx context.Context, c *Client, address string, payload P, cfg *RequestConfig) *async.Result[P] {
	if s, ok := any(payload).(string); ok {
		return any(c.UploadStringAsync(ctx, address, s, cfg)).(*async.Result[P])
	}

	return any(c.UploadDataAsync(ctx, address, any(payload).([]byte), cfg)).(*async.Result[P])
}

// Upload is the blocking form of [UploadAsync].
func Upload[P Payload](ctx context.Context, c *Client, address string, payload P, cfg *RequestConfig) (P, error) {
	return UploadAsync(ctx, c, address, payload, cfg).Wait()
}

func (c *Client) uploadData(ctx context.Context, address string, payload []byte, cfg *RequestConfig) ([]byte, error) {
	conf, err := c.configOrDefault(cfg)
	if err != nil {
		return nil, err
	}

	resp, err := c.RawPost(ctx, address, payload)
	if err != nil {
		return nil, err
	}

	return c.readBody(resp, conf)
}
