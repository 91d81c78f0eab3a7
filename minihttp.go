// Package minihttp is a minimal HTTP/1.1 client performing exactly one request per
// connection. The package-level functions use a client with the default config; see
// the client package for a configurable one.
package minihttp

import (
	"context"

	"github.com/indigo-web/minihttp/client"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/payload"
)

var defaultClient = client.New(nil)

type (
	Response = client.Response
	Request  = client.Request
)

// Fetch sends a request and waits for the whole response. The body may be nil.
func Fetch(ctx context.Context, m method.Method, url string, body payload.Payload) (Response, error) {
	return defaultClient.Fetch(ctx, m, url, body)
}

func Get(ctx context.Context, url string) (Response, error) {
	return Fetch(ctx, method.GET, url, nil)
}

func Head(ctx context.Context, url string) (Response, error) {
	return Fetch(ctx, method.HEAD, url, nil)
}

func Post(ctx context.Context, url string, body payload.Payload) (Response, error) {
	return Fetch(ctx, method.POST, url, body)
}

// Do performs an arbitrary request built with client.NewRequest.
func Do(ctx context.Context, req *Request) (Response, error) {
	return defaultClient.Do(ctx, req)
}
