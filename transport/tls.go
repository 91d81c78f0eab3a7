//go:build !minihttp_notls

package transport

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/indigo-web/minihttp/config"
)

// TLSAvailable reports whether the secure transport is built in.
const TLSAvailable = true

func newHandshaker(cfg config.TLS) Handshaker {
	return func(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error) {
		if len(cfg.ServerName) > 0 {
			serverName = cfg.ServerName
		}

		tlsConn := tls.Client(conn, &tls.Config{
			ServerName:         serverName,
			RootCAs:            cfg.RootCAs,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			MinVersion:         cfg.MinVersion,
		})

		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return nil, err
		}

		return tlsConn, nil
	}
}
