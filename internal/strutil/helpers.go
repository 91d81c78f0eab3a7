package strutil

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

func LStripWS(str string) string {
	for i, c := range str {
		switch c {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

// StripWS removes optional whitespaces around a header value.
func StripWS(str string) string {
	return RStripWS(LStripWS(str))
}

// CutHeader splits a header value into the value itself and its parameters, if any.
func CutHeader(header string) (value, params string) {
	sep := strings.IndexByte(header, ';')
	if sep == -1 {
		return header, ""
	}

	return header[:sep], LStripWS(header[sep+1:])
}

// LastToken returns the last element of a comma-separated list, stripped of whitespaces
// and parameters.
func LastToken(list string) string {
	if comma := strings.LastIndexByte(list, ','); comma != -1 {
		list = list[comma+1:]
	}

	token, _ := CutHeader(list)

	return StripWS(token)
}

// IsChunked tells whether a Transfer-Encoding value ends with the chunked coding, which
// is the only case the body is chunk-framed.
func IsChunked(transferEncoding string) bool {
	return strcomp.EqualFold(LastToken(transferEncoding), "chunked")
}

// IsFieldName reports whether the string is a non-empty header field name without
// whitespaces or control characters.
func IsFieldName(name string) bool {
	if len(name) == 0 {
		return false
	}

	for i := 0; i < len(name); i++ {
		if c := name[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}

	return true
}
