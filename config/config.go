package config

import (
	"crypto/tls"
	"crypto/x509"
	"time"

	"go.uber.org/zap"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}
)

type (
	Headers struct {
		// Number is responsible for the response headers storage size.
		// Default value is an initial size of allocated headers storage.
		// Maximal value is maximum number of headers allowed to be received.
		Number HeadersNumber
		// Space limits the length of a single status line or header field line. The
		// default value is the initial size of the buffer accumulating them.
		Space HeadersSpace
		// UserAgent is sent with every request, unless explicitly overridden.
		UserAgent string
	}

	Body struct {
		// MaxSize describes the maximal size of a response body, that can be received.
		// Larger bodies fail the request with httperr.ErrTooLarge.
		MaxSize uint64
		// Prealloc is the initial capacity of a body, whose length isn't known in advance
		// (chunked or close-delimited.)
		Prealloc int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket.
		ReadBufferSize int
		// WriteBufferSize is the initial capacity of the serialized request.
		WriteBufferSize int
		// DialTimeout limits the connection establishment, including the TLS handshake.
		// Zero means no limit besides the one of the context.
		DialTimeout time.Duration `test:"nullable"`
		// ReadTimeout is set as a deadline before every read from the socket. Zero disables
		// it, so a silent peer blocks the request until the context is done.
		ReadTimeout time.Duration `test:"nullable"`
	}

	TLS struct {
		// RootCAs overrides the system pool used to verify server certificates.
		RootCAs *x509.CertPool `test:"nullable"`
		// ServerName overrides the name used for SNI and certificate verification. By
		// default, the host from the URL is used.
		ServerName string `test:"nullable"`
		// InsecureSkipVerify disables the certificate verification entirely.
		InsecureSkipVerify bool `test:"nullable"`
		MinVersion         uint16
	}

	Log struct {
		// Logger receives debug records about every request. Nil is replaced by a nop logger.
		Logger *zap.Logger `test:"nullable"`
	}
)

// Config holds settings used across various parts of the client, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers
	Body    Body
	NET     NET
	TLS     TLS
	Log     Log
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 100,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,
				// long cookies and CSPs are not so rare to exceed a few kilobytes
				Maximal: 64 * 1024,
			},
			UserAgent: "minihttp/0.1.0",
		},
		Body: Body{
			MaxSize:  512 * 1024 * 1024, // 512 megabytes
			Prealloc: 4 * 1024,
		},
		NET: NET{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 1 * 1024,
		},
		TLS: TLS{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Logger returns the configured logger or a nop one.
func (c *Config) Logger() *zap.Logger {
	if c.Log.Logger == nil {
		return zap.NewNop()
	}

	return c.Log.Logger
}
