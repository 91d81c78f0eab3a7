package http1

import (
	"strings"
	"testing"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/proto"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/httperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitIntoParts(data []byte, n int) (parts [][]byte) {
	for i := 0; i < len(data); i += n {
		end := min(i+n, len(data))
		parts = append(parts, data[i:end])
	}

	return parts
}

// feedPartially feeds the parser with the data split into n-sized pieces, until it is
// done or fails.
func feedPartially(parser *Parser, data []byte, n int) (done bool, rest []byte, err error) {
	for _, part := range splitIntoParts(data, n) {
		done, rest, err = parser.Parse(part)
		if err != nil || done {
			return done, rest, err
		}
	}

	return false, nil, nil
}

// parseAll feeds the whole data in n-sized pieces and signals the end of stream if the
// parser didn't complete by then.
func parseAll(t *testing.T, cfg *config.Config, m method.Method, data string, n int) (Response, error) {
	parser := NewParser(cfg, m)
	done, _, err := feedPartially(parser, []byte(data), n)
	if err != nil {
		return Response{}, err
	}

	if !done {
		if err = parser.EOF(); err != nil {
			return Response{}, err
		}
	}

	require.True(t, parser.Done())
	return parser.Response(), nil
}

// forEachSplit runs the test for every fragment size, from a single byte to the whole input.
func forEachSplit(t *testing.T, data string, test func(t *testing.T, n int)) {
	for n := 1; n <= len(data); n++ {
		test(t, n)
	}
}

func TestParser(t *testing.T) {
	cfg := config.Default()

	t.Run("simple response", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nContent-Length: 5\r\nServer: test\r\n\r\nhello"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.GET, data, n)
			require.NoError(t, err)
			require.Equal(t, proto.HTTP11, resp.Protocol)
			require.Equal(t, status.OK, resp.Code)
			require.Equal(t, status.Status("OK"), resp.Status)
			require.Equal(t, "test", resp.Headers.Value("server"))
			require.True(t, resp.HasBody)
			require.Equal(t, "hello", string(resp.Body))
		})
	})

	t.Run("HTTP/1.0 without reason phrase", func(t *testing.T) {
		resp, err := parseAll(t, cfg, method.GET, "HTTP/1.0 404\r\nContent-Length: 0\r\n\r\n", 4096)
		require.NoError(t, err)
		require.Equal(t, proto.HTTP10, resp.Protocol)
		require.Equal(t, status.NotFound, resp.Code)
		require.Empty(t, resp.Status)
		require.True(t, resp.HasBody)
		require.Empty(t, resp.Body)
	})

	t.Run("non-standard status code", func(t *testing.T) {
		resp, err := parseAll(t, cfg, method.GET, "HTTP/1.1 799 Whatever It Is\r\nContent-Length: 0\r\n\r\n", 4096)
		require.NoError(t, err)
		require.Equal(t, status.Code(799), resp.Code)
		require.Equal(t, status.Status("Whatever It Is"), resp.Status)
	})

	t.Run("repeating headers", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nX-Foo: a\r\nx-foo: b\r\nContent-Length: 0\r\n\r\n"
		resp, err := parseAll(t, cfg, method.GET, data, 4096)
		require.NoError(t, err)
		require.Equal(t, "b", resp.Headers.Value("X-FOO"))
		require.Equal(t, []string{"a", "b"}, resp.Headers.Values("x-foo"))
	})

	t.Run("header value whitespaces", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nX-Foo:   spaced out \t\r\nX-Empty:\r\nContent-Length: 0\r\n\r\n"
		resp, err := parseAll(t, cfg, method.GET, data, 4096)
		require.NoError(t, err)
		require.Equal(t, "spaced out", resp.Headers.Value("x-foo"))

		value, found := resp.Headers.Get("x-empty")
		require.True(t, found)
		require.Empty(t, value)
	})

	t.Run("bare LF", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\nContent-Length: 2\nX-Foo: bar\n\nhi"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.GET, data, n)
			require.NoError(t, err)
			require.Equal(t, "bar", resp.Headers.Value("x-foo"))
			require.Equal(t, "hi", string(resp.Body))
		})
	})

	t.Run("chunked", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWiki\r\n0\r\n\r\n"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.GET, data, n)
			require.NoError(t, err)
			require.True(t, resp.HasBody)
			require.Equal(t, "Wiki", string(resp.Body))
		})
	})

	t.Run("chunked with multiple chunks", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n" +
			"7\r\nHello, \r\n6\r\nworld!\r\n0\r\n\r\n"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.GET, data, n)
			require.NoError(t, err)
			require.Equal(t, "Hello, world!", string(resp.Body))
		})
	})

	t.Run("chunked with trailer", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\nTrailer: X-Checksum\r\n\r\n" +
			"4\r\nWiki\r\n0\r\nX-Checksum: 42\r\n\r\n"
		resp, err := parseAll(t, cfg, method.GET, data, 4096)
		require.NoError(t, err)
		require.Equal(t, "Wiki", string(resp.Body))
	})

	t.Run("chunked with unannounced trailer", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n" +
			"4\r\nWiki\r\n0\r\nX-Checksum: 42\r\nX-Signature: abc\r\n\r\n"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.GET, data, n)
			require.NoError(t, err)
			require.Equal(t, "Wiki", string(resp.Body))
			require.False(t, resp.Headers.Has("X-Checksum"))
		})
	})

	t.Run("chunked takes precedence over content length", func(t *testing.T) {
		const data = "HTTP/1.1 200 OK\r\nContent-Length: 100\r\nTransfer-Encoding: gzip, chunked\r\n\r\n" +
			"4\r\nWiki\r\n0\r\n\r\n"
		resp, err := parseAll(t, cfg, method.GET, data, 4096)
		require.NoError(t, err)
		require.Equal(t, "Wiki", string(resp.Body))
	})

	t.Run("close delimited", func(t *testing.T) {
		const data = "HTTP/1.0 200 OK\r\nServer: test\r\n\r\nuntil the very end"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.GET, data, n)
			require.NoError(t, err)
			require.True(t, resp.HasBody)
			require.Equal(t, "until the very end", string(resp.Body))
		})
	})

	t.Run("close delimited empty", func(t *testing.T) {
		resp, err := parseAll(t, cfg, method.GET, "HTTP/1.1 200 OK\r\n\r\n", 4096)
		require.NoError(t, err)
		require.True(t, resp.HasBody)
		require.Empty(t, resp.Body)
	})

	t.Run("rest after fixed body", func(t *testing.T) {
		parser := NewParser(cfg, method.GET)
		done, rest, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhiextra"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "extra", string(rest))
		require.Equal(t, "hi", string(parser.Response().Body))

		done, rest, err = parser.Parse([]byte("more"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "more", string(rest))
	})

	t.Run("HEAD", func(t *testing.T) {
		parser := NewParser(cfg, method.HEAD)
		done, rest, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, rest)

		resp := parser.Response()
		require.False(t, resp.HasBody)
		require.Empty(t, resp.Body)
		require.Equal(t, "5", resp.Headers.Value("content-length"))
	})

	t.Run("no content and not modified", func(t *testing.T) {
		for _, code := range []string{"204 No Content", "304 Not Modified"} {
			parser := NewParser(cfg, method.GET)
			done, _, err := parser.Parse([]byte("HTTP/1.1 " + code + "\r\nContent-Length: 5\r\n\r\n"))
			require.NoError(t, err, code)
			require.True(t, done, code)
			require.False(t, parser.Response().HasBody, code)
		}
	})

	t.Run("interim responses are skipped", func(t *testing.T) {
		const data = "HTTP/1.1 100 Continue\r\nX-Interim: yes\r\n\r\n" +
			"HTTP/1.1 103 Early Hints\r\nLink: </style.css>\r\n\r\n" +
			"HTTP/1.1 201 Created\r\nContent-Length: 2\r\n\r\nok"
		forEachSplit(t, data, func(t *testing.T, n int) {
			resp, err := parseAll(t, cfg, method.POST, data, n)
			require.NoError(t, err)
			require.Equal(t, status.Created, resp.Code)
			require.False(t, resp.Headers.Has("x-interim"))
			require.False(t, resp.Headers.Has("link"))
			require.Equal(t, "ok", string(resp.Body))
		})
	})

	t.Run("switching protocols is final", func(t *testing.T) {
		parser := NewParser(cfg, method.GET)
		done, _, err := parser.Parse([]byte("HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, status.SwitchingProtocols, parser.Response().Code)
	})
}

func TestParserErrors(t *testing.T) {
	cfg := config.Default()

	for _, tc := range []struct {
		Name string
		Data string
		Want error
	}{
		{"garbage", "GARBAGE\r\n\r\n", httperr.ErrMalformedStatusLine},
		{"unknown protocol", "HTTP/2.0 200 OK\r\n\r\n", httperr.ErrMalformedStatusLine},
		{"lowercase protocol", "http/1.1 200 OK\r\n\r\n", httperr.ErrMalformedStatusLine},
		{"non-numeric code", "HTTP/1.1 2OO OK\r\n\r\n", httperr.ErrMalformedStatusLine},
		{"empty code", "HTTP/1.1  OK\r\n\r\n", httperr.ErrMalformedStatusLine},
		{"code overflow", "HTTP/1.1 65536 Huge\r\n\r\n", httperr.ErrMalformedStatusLine},
		{"eof in status line", "HTTP/1.1 20", httperr.ErrMalformedStatusLine},
		{"no colon", "HTTP/1.1 200 OK\r\nServer test\r\n\r\n", httperr.ErrMalformedHeader},
		{"empty field name", "HTTP/1.1 200 OK\r\n: value\r\n\r\n", httperr.ErrMalformedHeader},
		{"space in field name", "HTTP/1.1 200 OK\r\nX Foo: bar\r\n\r\n", httperr.ErrMalformedHeader},
		{"eof in headers", "HTTP/1.1 200 OK\r\nServer: te", httperr.ErrMalformedHeader},
		{"bad content length", "HTTP/1.1 200 OK\r\nContent-Length: five\r\n\r\n", httperr.ErrMalformedHeader},
		{"negative content length", "HTTP/1.1 200 OK\r\nContent-Length: -1\r\n\r\n", httperr.ErrMalformedHeader},
		{
			"conflicting content lengths",
			"HTTP/1.1 200 OK\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\nhello",
			httperr.ErrMalformedHeader,
		},
		{
			"truncated fixed body",
			"HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nabc",
			httperr.ErrTruncatedBody,
		},
		{
			"truncated chunked body",
			"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWi",
			httperr.ErrTruncatedBody,
		},
		{
			"chunked body without the last chunk",
			"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWiki\r\n",
			httperr.ErrTruncatedBody,
		},
		{
			"malformed chunk size",
			"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\nzz\r\nWiki\r\n0\r\n\r\n",
			httperr.ErrMalformedChunk,
		},
		{"nothing at all", "", httperr.ErrConnection},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := parseAll(t, cfg, method.GET, tc.Data, 4096)
			require.ErrorIs(t, err, tc.Want)
		})
	}
}

func TestParserEquivalentContentLengths(t *testing.T) {
	const data = "HTTP/1.1 200 OK\r\nContent-Length: 2, 2\r\nContent-Length: 2\r\n\r\nhi"
	resp, err := parseAll(t, config.Default(), method.GET, data, 4096)
	require.NoError(t, err)
	require.Equal(t, "hi", string(resp.Body))
}

func TestParserLimits(t *testing.T) {
	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Number.Maximal = 2
		const data = "HTTP/1.1 200 OK\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"
		_, err := parseAll(t, cfg, method.GET, data, 4096)
		require.ErrorIs(t, err, httperr.ErrTooLarge)
	})

	t.Run("too long header line", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Space.Default = 16
		cfg.Headers.Space.Maximal = 64
		data := "HTTP/1.1 200 OK\r\nX-Long: " + strings.Repeat("a", 100) + "\r\n\r\n"
		forEachSplit(t, data, func(t *testing.T, n int) {
			_, err := parseAll(t, cfg, method.GET, data, n)
			require.ErrorIs(t, err, httperr.ErrTooLarge)
		})
	})

	t.Run("too long status line", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Space.Default = 16
		cfg.Headers.Space.Maximal = 64
		data := "HTTP/1.1 200 " + strings.Repeat("O", 100) + "\r\n\r\n"
		_, err := parseAll(t, cfg, method.GET, data, 4096)
		require.ErrorIs(t, err, httperr.ErrTooLarge)
	})

	t.Run("declared body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 4
		_, err := parseAll(t, cfg, method.GET, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello", 4096)
		require.ErrorIs(t, err, httperr.ErrTooLarge)
	})

	t.Run("chunked body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 4
		const data = "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWiki\r\n1\r\n!\r\n0\r\n\r\n"
		_, err := parseAll(t, cfg, method.GET, data, 4096)
		require.ErrorIs(t, err, httperr.ErrTooLarge)
	})

	t.Run("close delimited body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 4
		_, err := parseAll(t, cfg, method.GET, "HTTP/1.1 200 OK\r\n\r\nhello", 4096)
		require.ErrorIs(t, err, httperr.ErrTooLarge)
	})

	t.Run("header lines are limited individually", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Space.Default = 16
		cfg.Headers.Space.Maximal = 64
		data := "HTTP/1.1 200 OK\r\n" + strings.Repeat("X-Header: some value\r\n", 20) + "Content-Length: 0\r\n\r\n"
		resp, err := parseAll(t, cfg, method.GET, data, 4096)
		require.NoError(t, err)
		assert.Len(t, resp.Headers.Values("x-header"), 20)
	})
}
