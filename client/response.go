package client

import (
	json "github.com/json-iterator/go"

	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/proto"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/protocol/http1"
)

// Response is a fully received response. It owns its data entirely, the connection it
// came from is already closed.
type Response struct {
	Protocol proto.Proto
	Code     status.Code
	Status   status.Status
	Headers  *headers.Headers
	Body     []byte
	// HasBody is false for responses that cannot carry a body: responses to HEAD
	// requests, and 1xx, 204 and 304 ones.
	HasBody bool
}

func newResponse(r http1.Response) Response {
	return Response{
		Protocol: r.Protocol,
		Code:     r.Code,
		Status:   r.Status,
		Headers:  r.Headers,
		Body:     r.Body,
		HasBody:  r.HasBody,
	}
}

// IsSuccess reports whether the code is 2xx.
func (r Response) IsSuccess() bool {
	return r.Code.IsSuccess()
}

// Header returns the last value of the header. The key is case-insensitive.
func (r Response) Header(key string) (string, bool) {
	if r.Headers == nil {
		return "", false
	}

	return r.Headers.Get(key)
}

// Text returns the body as a string. The flag is false if there is no body at all.
func (r Response) Text() (string, bool) {
	return string(r.Body), r.HasBody
}

func (r Response) Bytes() []byte {
	return r.Body
}

// JSON decodes the body into the model.
func (r Response) JSON(model any) error {
	return json.ConfigCompatibleWithStandardLibrary.Unmarshal(r.Body, model)
}
