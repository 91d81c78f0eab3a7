// Package httptest parses rendered requests back, strictly enough to catch any
// deviation from the wire format.
package httptest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/method"
)

type Request struct {
	Method  method.Method
	Path    string
	Proto   string
	Headers *headers.Headers
	Body    string
}

// Parse accepts exactly one request. Every line must be terminated by CRLF, and the body
// must span exactly as many bytes as the Content-Length says.
func Parse(raw string) (request Request, err error) {
	request.Headers = headers.New()

	requestLine, raw, found := strings.Cut(raw, "\r\n")
	if !found {
		return request, fmt.Errorf("bad request line %q: no breaking CRLF", requestLine)
	}

	if err = parseRequestLine(&request, requestLine); err != nil {
		return request, err
	}

	for {
		var headerLine string
		headerLine, raw, found = strings.Cut(raw, "\r\n")
		if !found {
			return request, fmt.Errorf("bad header line %q: no breaking CRLF", headerLine)
		}

		if len(headerLine) == 0 {
			break
		}

		key, value, err := parseHeaderLine(headerLine)
		if err != nil {
			return request, err
		}

		request.Headers.Add(key, value)
	}

	request.Body, err = processBody(request, raw)

	return request, err
}

func parseRequestLine(request *Request, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("bad request line %q: stray line break", line)
	}

	fields := strings.Split(line, " ")
	if len(fields) != 3 {
		return fmt.Errorf("bad request line %q: want 3 fields, got %d", line, len(fields))
	}

	request.Method = method.Parse(fields[0])
	if request.Method == method.Unknown {
		return fmt.Errorf("bad request line %q: unknown method", line)
	}

	request.Path, request.Proto = fields[1], fields[2]

	return nil
}

func parseHeaderLine(line string) (key, value string, err error) {
	if strings.ContainsAny(line, "\r\n") {
		return "", "", fmt.Errorf("bad header %q: stray line break", line)
	}

	key, value, found := strings.Cut(line, ": ")
	if !found {
		return "", "", fmt.Errorf("bad header %q: no value", line)
	}

	if len(key) == 0 {
		return "", "", fmt.Errorf("bad header %q: empty key", line)
	}

	return key, value, nil
}

func processBody(request Request, data string) (string, error) {
	contentLengths := request.Headers.Values("content-length")
	switch len(contentLengths) {
	case 0:
		if len(data) == 0 {
			return "", nil
		}

		return "", fmt.Errorf("bad request: got %d bytes of body without Content-Length", len(data))
	case 1:
		length, err := strconv.Atoi(contentLengths[0])
		if err != nil {
			return "", err
		}

		if len(data) != length {
			return "", fmt.Errorf("bad request: Content-Length is %d, but got %d bytes", length, len(data))
		}

		return data, nil
	default:
		return "", fmt.Errorf(
			"bad request: too many content-lengths: %s", strings.Join(contentLengths, ", "),
		)
	}
}
