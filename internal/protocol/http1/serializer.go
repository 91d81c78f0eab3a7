package http1

import (
	"strconv"

	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/proto"
)

// Request is everything needed to render a request. Target and Host are expected to be
// already resolved from the URL.
type Request struct {
	Method  method.Method
	Target  string
	Host    string
	Headers *headers.Headers
	Body    []byte
	// HasBody distinguishes an empty body from no body at all. Only the former gets
	// the Content-Length and Content-Type injected.
	HasBody     bool
	ContentType mime.MIME
	UserAgent   string
}

// Serialize appends the rendered request to the buff and returns it. The output depends
// on the request only.
func Serialize(buff []byte, req Request) []byte {
	s := serializer{buff: buff}
	s.appendRequestLine(req)
	s.appendHeaders(req)
	s.crlf()

	if req.HasBody {
		s.buff = append(s.buff, req.Body...)
	}

	return s.buff
}

type serializer struct {
	buff []byte
}

func (s *serializer) appendRequestLine(req Request) {
	s.buff = append(s.buff, req.Method.String()...)
	s.sp()

	target := req.Target
	if len(target) == 0 {
		target = "/"
	}

	s.buff = append(s.buff, target...)
	s.sp()
	s.buff = append(s.buff, proto.HTTP11.String()...)
	s.crlf()
}

// appendHeaders writes the caller's headers in their order first. Headers the caller
// didn't set are filled with defaults afterwards.
func (s *serializer) appendHeaders(req Request) {
	var userHeaders *headers.Headers
	if req.Headers != nil {
		userHeaders = req.Headers
	} else {
		userHeaders = headers.New()
	}

	for key, value := range userHeaders.Iter() {
		s.appendHeader(key, value)
	}

	if !userHeaders.Has("Host") {
		s.appendHeader("Host", req.Host)
	}

	if len(req.UserAgent) > 0 && !userHeaders.Has("User-Agent") {
		s.appendHeader("User-Agent", req.UserAgent)
	}

	if req.HasBody {
		if len(req.ContentType) > 0 && !userHeaders.Has("Content-Type") {
			s.appendHeader("Content-Type", req.ContentType)
		}

		if !userHeaders.Has("Content-Length") {
			s.appendContentLength(len(req.Body))
		}
	}

	if !userHeaders.Has("Connection") {
		s.appendHeader("Connection", "close")
	}
}

// appendHeader writes a complete header field line including the trailing CRLF.
func (s *serializer) appendHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.colonsp()
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *serializer) appendContentLength(value int) {
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendUint(s.buff, uint64(value), 10)
	s.crlf()
}

func (s *serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *serializer) colonsp() {
	s.buff = append(s.buff, ':', ' ')
}

const crlf = "\r\n"

func (s *serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}
