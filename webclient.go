// Package webclient exposes the client builder.
package webclient

import (
	"github.com/adamwoolhether/webclient/client"
)

// WebClient is the name the facade was known by before it moved into the
// client package.
type WebClient = client.Client

// New instantiates a new *WebClient with the provided options.
// If not specified, a transport cloned from http.DefaultTransport is used
// for every request.
func New(opts ...client.Option) (*WebClient, error) {
	return client.Build(opts...)
}
