//go:build minihttp_notls

package transport

import "github.com/indigo-web/minihttp/config"

const TLSAvailable = false

func newHandshaker(config.TLS) Handshaker {
	return nil
}
