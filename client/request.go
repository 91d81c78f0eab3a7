package client

import (
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/payload"
)

// Request describes a single exchange. It is consumed by Client.Do and may be reused
// afterwards, as nothing modifies it.
type Request struct {
	Method  method.Method
	URL     string
	Query   Query
	Headers *headers.Headers
	// Body is optional. A nil body results in a request without one.
	Body payload.Payload
}

func NewRequest(m method.Method, url string) *Request {
	return &Request{
		Method:  m,
		URL:     url,
		Query:   NewQuery(),
		Headers: headers.New(),
	}
}

func (r *Request) WithMethod(m method.Method) *Request {
	r.Method = m
	return r
}

func (r *Request) WithURL(url string) *Request {
	r.URL = url
	return r
}

// WithHeader adds the values to the header, keeping the existing ones.
func (r *Request) WithHeader(key string, values ...string) *Request {
	for _, value := range values {
		r.Headers.Add(key, value)
	}

	return r
}

// WithQuery adds parameters to the query of the URL.
func (r *Request) WithQuery(key string, values ...string) *Request {
	r.Query.WithValue(key, values...)
	return r
}

func (r *Request) WithBody(body payload.Payload) *Request {
	r.Body = body
	return r
}
