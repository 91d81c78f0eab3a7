package http1

import (
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/proto"
	"github.com/indigo-web/minihttp/http/status"
)

// Response holds everything the parser extracted from the stream.
type Response struct {
	Protocol proto.Proto
	Code     status.Code
	Status   status.Status
	Headers  *headers.Headers
	Body     []byte
	// HasBody is false only if the response is known to carry no body at all, as it
	// happens to HEAD requests, 1xx, 204 and 304 responses. Otherwise, the body is
	// present, even though it may be empty.
	HasBody bool
}
