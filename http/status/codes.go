package status

type (
	Code   uint16
	Status string
)

// Codes the client treats specially or tests against. Any other value received from
// the peer is still a valid Code, as a status is a transport-level fact.
const (
	Continue           Code = 100
	SwitchingProtocols Code = 101
	EarlyHints         Code = 103

	OK        Code = 200
	Created   Code = 201
	NoContent Code = 204

	MovedPermanently Code = 301
	Found            Code = 302
	NotModified      Code = 304

	BadRequest Code = 400
	NotFound   Code = 404
	Teapot     Code = 418

	InternalServerError Code = 500
	BadGateway          Code = 502
	ServiceUnavailable  Code = 503
)

// Text returns a reason phrase for the code. It returns the empty string if the code
// is unknown.
func Text(code Code) Status {
	switch code {
	case Continue:
		return "Continue"
	case SwitchingProtocols:
		return "Switching Protocols"
	case EarlyHints:
		return "Early Hints"
	case OK:
		return "OK"
	case Created:
		return "Created"
	case NoContent:
		return "No Content"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case Teapot:
		return "I'm a teapot"
	case InternalServerError:
		return "Internal Server Error"
	case BadGateway:
		return "Bad Gateway"
	case ServiceUnavailable:
		return "Service Unavailable"
	}

	return ""
}

// IsInformational reports 1xx codes.
func (c Code) IsInformational() bool {
	return c >= 100 && c < 200
}

// IsSuccess reports 2xx codes.
func (c Code) IsSuccess() bool {
	return c >= 200 && c < 300
}

// IsInterim tells whether a response with such code is followed by another one on the
// same connection. 101 is final for us, as we never ask for an upgrade.
func (c Code) IsInterim() bool {
	return c.IsInformational() && c != SwitchingProtocols
}

// ForbidsBody reports codes whose responses never carry a body, no matter what
// the framing headers say.
func (c Code) ForbidsBody() bool {
	return c.IsInformational() || c == NoContent || c == NotModified
}
