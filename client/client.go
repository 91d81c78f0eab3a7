package client

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/payload"
	"github.com/indigo-web/minihttp/httperr"
	"github.com/indigo-web/minihttp/internal/protocol/http1"
	"github.com/indigo-web/minihttp/internal/strutil"
	"github.com/indigo-web/minihttp/transport"
	"go.uber.org/zap"
)

// Dialer opens a connection exclusively owned by a single request.
type Dialer interface {
	Dial(ctx context.Context, host string, port uint16, secure bool) (transport.Client, error)
}

// Client performs one request per connection. It keeps nothing between calls except
// the configuration, therefore is safe for concurrent use.
type Client struct {
	cfg    *config.Config
	log    *zap.Logger
	dialer Dialer
}

// New returns a client using the config. Nil config stands for config.Default().
func New(cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Client{
		cfg:    cfg,
		log:    cfg.Logger(),
		dialer: transport.NewDialer(cfg),
	}
}

// WithDialer replaces the way connections are opened.
func (c *Client) WithDialer(d Dialer) *Client {
	c.dialer = d
	return c
}

// Fetch sends a request with the method to the URL, optionally with a body, and waits
// for the whole response.
func (c *Client) Fetch(ctx context.Context, m method.Method, url string, body payload.Payload) (Response, error) {
	return c.Do(ctx, &Request{
		Method: m,
		URL:    url,
		Body:   body,
	})
}

// Do performs the request. Whatever happens, the connection is closed before it returns,
// and the first error encountered is the one reported. Requests are never retried.
func (c *Client) Do(ctx context.Context, req *Request) (Response, error) {
	if req.Method == method.Unknown || req.Method > method.Count {
		return Response{}, httperr.New(httperr.Serialization, "unknown method")
	}

	dst, err := resolve(req.URL, req.Query)
	if err != nil {
		return Response{}, err
	}

	if err = validateHeaders(req.Headers); err != nil {
		return Response{}, err
	}

	rendered := http1.Request{
		Method:    req.Method,
		Target:    dst.Path,
		Host:      dst.Authority,
		Headers:   req.Headers,
		UserAgent: c.cfg.Headers.UserAgent,
	}

	if req.Body != nil {
		rendered.Body, err = req.Body.Bytes()
		if err != nil {
			return Response{}, httperr.Wrap(httperr.Serialization, err, "encode body")
		}

		rendered.HasBody = true
		rendered.ContentType = contentType(req.Body)
	}

	data := http1.Serialize(make([]byte, 0, c.cfg.NET.WriteBufferSize), rendered)

	c.log.Debug("sending request",
		zap.Stringer("method", req.Method),
		zap.String("host", dst.Host),
		zap.Uint16("port", dst.Port),
		zap.Bool("secure", dst.Secure),
		zap.String("target", dst.Path),
		zap.Int("bytes", len(data)),
	)

	conn, err := c.dialer.Dial(ctx, dst.Host, dst.Port, dst.Secure)
	if err != nil {
		return Response{}, err
	}

	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		// unblocks pending reads and writes
		_ = conn.Close()
	})
	defer stop()

	if _, err = conn.Write(data); err != nil {
		return Response{}, ioError(ctx, err, "send request")
	}

	resp, err := c.receive(ctx, conn, req.Method)
	if err != nil {
		return Response{}, err
	}

	c.log.Debug("response received",
		zap.String("host", dst.Host),
		zap.Uint16("code", uint16(resp.Code)),
		zap.Int("bytes", len(resp.Body)),
	)

	return resp, nil
}

func (c *Client) receive(ctx context.Context, conn transport.Client, m method.Method) (Response, error) {
	parser := http1.NewParser(c.cfg, m)

	for {
		data, err := conn.Read()
		if len(data) > 0 {
			done, _, perr := parser.Parse(data)
			if perr != nil {
				return Response{}, perr
			}

			if done {
				// anything after the response is ignored, as the connection isn't reused
				return newResponse(parser.Response()), nil
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			if err = parser.EOF(); err != nil {
				return Response{}, err
			}

			return newResponse(parser.Response()), nil
		default:
			return Response{}, ioError(ctx, err, "receive response")
		}
	}
}

// ioError reports failures of the established connection. If the context is done, it
// is the real cause, the connection was just closed on its behalf.
func ioError(ctx context.Context, err error, msg string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	return httperr.Wrap(httperr.Connection, err, msg)
}

// validateHeaders rejects everything that would break the framing of the request if
// written as is.
func validateHeaders(hdrs *headers.Headers) error {
	if hdrs == nil {
		return nil
	}

	for key, value := range hdrs.Iter() {
		if !strutil.IsFieldName(key) || strings.ContainsAny(key, ":") {
			return httperr.New(httperr.Serialization, "bad header name "+strconv.Quote(key))
		}

		if strings.ContainsAny(value, "\r\n\x00") {
			return httperr.New(httperr.Serialization, "bad value of header "+strconv.Quote(key))
		}
	}

	return nil
}

func contentType(body payload.Payload) mime.MIME {
	if ct := body.ContentType(); len(ct) > 0 {
		return ct
	}

	return mime.OctetStream
}
