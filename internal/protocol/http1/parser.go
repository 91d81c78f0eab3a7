package http1

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/proto"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/httperr"
	"github.com/indigo-web/minihttp/internal/strutil"
	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/utils/uf"
)

// maxPrealloc limits the memory reserved for a body upfront, as the Content-Length
// value comes from the peer and cannot be trusted.
const maxPrealloc = 1 << 20

// Parser is an incremental HTTP/1 response parser. It consumes the stream in fragments
// of arbitrary size and never completes until the body framing is definitively over.
// A parser is good for a single response.
type Parser struct {
	cfg      *config.Config
	method   method.Method
	state    parserState
	received bool
	lineBuff *buffer.Buffer[byte]
	response Response
	framing  framing
	bodyLeft uint64
	chunked  *chunkedbody.Parser
}

// NewParser returns a parser expecting a response to a request with the given method.
func NewParser(cfg *config.Config, m method.Method) *Parser {
	return &Parser{
		cfg:      cfg,
		method:   m,
		state:    eStatusLine,
		lineBuff: buffer.NewBuffer[byte](cfg.Headers.Space.Default, cfg.Headers.Space.Maximal),
		response: Response{
			Headers: headers.NewPrealloc(cfg.Headers.Number.Default),
		},
	}
}

// Parse feeds the parser with the next fragment of the stream. When done is true, the
// response is complete and rest contains bytes following it, if any. Any error is final.
func (p *Parser) Parse(data []byte) (done bool, rest []byte, err error) {
	if len(data) > 0 {
		p.received = true
	}

	switch p.state {
	case eStatusLine:
		goto statusLine
	case eHeaderLine:
		goto headerLine
	case eBody:
		goto body
	case eComplete:
		return true, data, nil
	default:
		panic("BUG: response parser: unknown state")
	}

statusLine:
	{
		line, tail, ok, err := p.readLine(data, httperr.MalformedStatusLine)
		if err != nil || !ok {
			return false, nil, err
		}

		err = p.parseStatusLine(line)
		p.lineBuff.Clear()
		if err != nil {
			return false, nil, err
		}

		data = tail
		p.state = eHeaderLine
		goto headerLine
	}

headerLine:
	for {
		line, tail, ok, err := p.readLine(data, httperr.MalformedHeader)
		if err != nil || !ok {
			return false, nil, err
		}

		data = tail

		if len(line) == 0 {
			p.lineBuff.Clear()

			if p.response.Code.IsInterim() {
				// informational responses precede the final one and are of no interest
				p.response.Headers.Clear()
				p.state = eStatusLine
				goto statusLine
			}

			if err = p.chooseFraming(); err != nil {
				return false, nil, err
			}

			if p.framing == framingNone {
				p.state = eComplete
				return true, data, nil
			}

			p.state = eBody
			goto body
		}

		err = p.parseHeader(line)
		p.lineBuff.Clear()
		if err != nil {
			return false, nil, err
		}
	}

body:
	switch p.framing {
	case framingFixed:
		n := min(uint64(len(data)), p.bodyLeft)
		p.response.Body = append(p.response.Body, data[:n]...)
		p.bodyLeft -= n

		if p.bodyLeft == 0 {
			p.state = eComplete
			return true, data[n:], nil
		}

		return false, nil, nil
	case framingChunked:
		for len(data) > 0 {
			chunk, extra, err := p.chunked.Parse(data, true)
			if len(chunk) > 0 {
				if err := p.appendBody(chunk); err != nil {
					return false, nil, err
				}
			}

			switch err {
			case nil:
			case io.EOF:
				p.state = eComplete
				return true, extra, nil
			default:
				return false, nil, httperr.Wrap(httperr.MalformedChunk, err, "")
			}

			data = extra
		}

		return false, nil, nil
	case framingClose:
		return false, nil, p.appendBody(data)
	default:
		panic("BUG: response parser: body state without framing")
	}
}

// EOF notifies the parser that the peer closed the stream. It completes close-delimited
// bodies and reports an error in case the response was cut short.
func (p *Parser) EOF() error {
	switch p.state {
	case eComplete:
		return nil
	case eStatusLine:
		if !p.received {
			return httperr.New(httperr.Connection, "connection closed without a response")
		}

		return httperr.New(httperr.MalformedStatusLine, "unexpected end of stream")
	case eHeaderLine:
		return httperr.New(httperr.MalformedHeader, "unexpected end of stream")
	}

	switch p.framing {
	case framingClose:
		p.state = eComplete
		return nil
	case framingFixed:
		return httperr.New(httperr.TruncatedBody, fmt.Sprintf(
			"got %d bytes, %d more expected", len(p.response.Body), p.bodyLeft,
		))
	default:
		return httperr.New(httperr.TruncatedBody, "stream ended before the last chunk")
	}
}

// Done reports whether the response is complete.
func (p *Parser) Done() bool {
	return p.state == eComplete
}

// Response returns the parsed response. It makes sense only after the parser is done.
func (p *Parser) Response() Response {
	return p.response
}

// readLine returns a line without its terminator. Incomplete lines are accumulated in the
// line buffer, which must be cleared after the line was processed. A bare LF is tolerated
// as a terminator.
func (p *Parser) readLine(data []byte, kind httperr.Kind) (line, rest []byte, ok bool, err error) {
	lf := bytes.IndexByte(data, '\n')
	if lf == -1 {
		if !p.lineBuff.Append(data...) {
			return nil, nil, false, lineTooLong(kind)
		}

		return nil, nil, false, nil
	}

	if !p.lineBuff.Append(data[:lf]...) {
		return nil, nil, false, lineTooLong(kind)
	}

	return rstripCR(p.lineBuff.Finish()), data[lf+1:], true, nil
}

func lineTooLong(kind httperr.Kind) error {
	return httperr.New(httperr.TooLarge, kind.String()+" exceeds the line limit")
}

func (p *Parser) parseStatusLine(line []byte) error {
	sp := bytes.IndexByte(line, ' ')
	if sp == -1 {
		return httperr.New(httperr.MalformedStatusLine, strconv.Quote(string(line)))
	}

	p.response.Protocol = proto.FromBytes(line[:sp])
	if p.response.Protocol == proto.Unknown {
		return httperr.New(
			httperr.MalformedStatusLine, "unrecognized version "+strconv.Quote(string(line[:sp])),
		)
	}

	codeToken, reason, _ := bytes.Cut(line[sp+1:], []byte{' '})
	code, ok := parseCode(codeToken)
	if !ok {
		return httperr.New(
			httperr.MalformedStatusLine, "bad status code "+strconv.Quote(string(codeToken)),
		)
	}

	p.response.Code = code
	p.response.Status = status.Status(reason)

	return nil
}

// parseCode accepts any decimal number representable by status.Code, as its range
// isn't ours to validate.
func parseCode(token []byte) (code status.Code, ok bool) {
	if len(token) == 0 {
		return 0, false
	}

	var n uint32
	for _, c := range token {
		if c < '0' || c > '9' {
			return 0, false
		}

		n = n*10 + uint32(c-'0')
		if n > 0xffff {
			return 0, false
		}
	}

	return status.Code(n), true
}

func (p *Parser) parseHeader(line []byte) error {
	if p.response.Headers.Len() >= p.cfg.Headers.Number.Maximal {
		return httperr.New(httperr.TooLarge, "too many headers")
	}

	colon := bytes.IndexByte(line, ':')
	if colon == -1 {
		return httperr.New(httperr.MalformedHeader, "no colon in "+strconv.Quote(string(line)))
	}

	if !strutil.IsFieldName(uf.B2S(line[:colon])) {
		return httperr.New(
			httperr.MalformedHeader, "bad field name "+strconv.Quote(string(line[:colon])),
		)
	}

	p.response.Headers.Add(string(line[:colon]), strutil.StripWS(string(line[colon+1:])))

	return nil
}

// chooseFraming decides how the end of the body is going to be determined. Chunked
// transfer encoding takes precedence over the Content-Length, which in turn takes
// precedence over waiting for the connection to be closed.
func (p *Parser) chooseFraming() error {
	if p.method == method.HEAD || p.response.Code.ForbidsBody() {
		p.framing = framingNone
		return nil
	}

	p.response.HasBody = true
	hdrs := p.response.Headers

	if te, found := hdrs.Get("Transfer-Encoding"); found {
		if !strutil.IsChunked(te) {
			// a response with the transfer coding other than chunked lasts until
			// the connection is closed
			p.framing = framingClose
			p.response.Body = make([]byte, 0, p.cfg.Body.Prealloc)
			return nil
		}

		p.framing = framingChunked
		p.chunked = chunkedbody.NewParser(chunkedbody.DefaultSettings())
		p.response.Body = make([]byte, 0, p.cfg.Body.Prealloc)
		return nil
	}

	if values := hdrs.Values("Content-Length"); len(values) > 0 {
		length, err := contentLength(values)
		if err != nil {
			return err
		}

		if length > p.cfg.Body.MaxSize {
			return httperr.New(httperr.TooLarge, "body of "+strconv.FormatUint(length, 10)+" bytes")
		}

		p.response.Body = make([]byte, 0, min(length, maxPrealloc))
		if length == 0 {
			p.framing = framingNone
			return nil
		}

		p.framing = framingFixed
		p.bodyLeft = length
		return nil
	}

	p.framing = framingClose
	p.response.Body = make([]byte, 0, p.cfg.Body.Prealloc)

	return nil
}

// contentLength parses all the Content-Length values, including comma-separated lists
// occasionally produced by proxies. They must all be equal.
func contentLength(values []string) (uint64, error) {
	var (
		length uint64
		seen   bool
	)

	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			n, err := strconv.ParseUint(strutil.StripWS(token), 10, 64)
			if err != nil {
				return 0, httperr.New(httperr.MalformedHeader, "bad Content-Length "+strconv.Quote(value))
			}

			if seen && n != length {
				return 0, httperr.New(httperr.MalformedHeader, "conflicting Content-Length values")
			}

			length, seen = n, true
		}
	}

	return length, nil
}

func (p *Parser) appendBody(data []byte) error {
	if uint64(len(p.response.Body))+uint64(len(data)) > p.cfg.Body.MaxSize {
		return httperr.New(httperr.TooLarge, "body exceeds the limit")
	}

	p.response.Body = append(p.response.Body, data...)

	return nil
}

func rstripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}

	return b
}
