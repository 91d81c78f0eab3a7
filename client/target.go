package client

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/indigo-web/minihttp/httperr"
)

// target is where and what the request goes to, resolved from the URL.
type target struct {
	// Host is the bare host name or address, used for dialing and certificate
	// verification.
	Host   string
	Port   uint16
	Secure bool
	// Authority is the value of the Host header.
	Authority string
	// Path is the request target: the path with the query, if any.
	Path string
}

func resolve(rawURL string, query Query) (target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return target{}, httperr.Wrap(httperr.InvalidURL, err, "")
	}

	var (
		secure      bool
		defaultPort uint16
	)

	switch strings.ToLower(u.Scheme) {
	case "http":
		defaultPort = 80
	case "https":
		secure, defaultPort = true, 443
	case "":
		return target{}, httperr.New(httperr.InvalidURL, "no scheme in "+strconv.Quote(rawURL))
	default:
		return target{}, httperr.New(httperr.InvalidURL, "unsupported scheme "+strconv.Quote(u.Scheme))
	}

	host := u.Hostname()
	if len(host) == 0 {
		return target{}, httperr.New(httperr.InvalidURL, "no host in "+strconv.Quote(rawURL))
	}

	port := defaultPort
	authority := host
	if strings.Contains(host, ":") {
		authority = "[" + host + "]"
	}

	// an empty port after the colon, as in http://example.com:/, is the default one
	if rawPort := u.Port(); len(rawPort) > 0 {
		p, err := strconv.ParseUint(rawPort, 10, 16)
		if err != nil || p == 0 {
			return target{}, httperr.New(httperr.InvalidURL, "bad port "+strconv.Quote(rawPort))
		}

		port = uint16(p)
		authority = net.JoinHostPort(host, rawPort)
	}

	return target{
		Host:      host,
		Port:      port,
		Secure:    secure,
		Authority: authority,
		Path:      requestTarget(u, query),
	}, nil
}

// requestTarget renders the origin-form target. The fragment is never sent.
func requestTarget(u *url.URL, query Query) string {
	path := u.EscapedPath()
	if len(path) == 0 {
		path = "/"
	}

	// url.Parse keeps the query as is, so some characters still need to be escaped
	rawQuery := strings.ReplaceAll(u.RawQuery, " ", "%20")
	if extra := query.Encode(); len(extra) > 0 {
		if len(rawQuery) > 0 {
			rawQuery += "&"
		}

		rawQuery += extra
	}

	if len(rawQuery) == 0 {
		return path
	}

	return path + "?" + rawQuery
}
