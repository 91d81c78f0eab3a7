// Package payload describes request bodies as anything that can be turned into bytes
// and labelled with a content type.
package payload

import (
	"net/url"

	json "github.com/json-iterator/go"

	"github.com/indigo-web/minihttp/http/mime"
)

type Payload interface {
	// Bytes returns the body as it must be transmitted.
	Bytes() ([]byte, error)
	// ContentType labels the bytes. The label is sent unless the request sets its own
	// Content-Type header.
	ContentType() mime.MIME
}

// JSON encodes any value with json-iterator. Map keys are sorted, so the same value
// always results in the same bytes.
func JSON(v any) Payload {
	return jsonPayload{v}
}

type jsonPayload struct {
	value any
}

func (j jsonPayload) Bytes() ([]byte, error) {
	return json.ConfigCompatibleWithStandardLibrary.Marshal(j.value)
}

func (jsonPayload) ContentType() mime.MIME {
	return mime.JSON
}

// Text is a plain text body.
func Text(text string) Payload {
	return Raw([]byte(text), mime.Plain)
}

// Raw sends the bytes as they are. An empty content type falls back to
// application/octet-stream.
func Raw(data []byte, contentType mime.MIME) Payload {
	if len(contentType) == 0 {
		contentType = mime.OctetStream
	}

	return rawPayload{data, contentType}
}

type rawPayload struct {
	data        []byte
	contentType mime.MIME
}

func (r rawPayload) Bytes() ([]byte, error) {
	return r.data, nil
}

func (r rawPayload) ContentType() mime.MIME {
	return r.contentType
}

// Form is an application/x-www-form-urlencoded body. Keys are sorted.
func Form(values map[string][]string) Payload {
	return formPayload(values)
}

type formPayload map[string][]string

func (f formPayload) Bytes() ([]byte, error) {
	return []byte(url.Values(f).Encode()), nil
}

func (formPayload) ContentType() mime.MIME {
	return mime.FormUrlencoded
}
