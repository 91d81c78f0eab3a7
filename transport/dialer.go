package transport

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/httperr"
	"go.uber.org/zap"
)

// NoTLSTag is the build tag excluding the secure transport.
const NoTLSTag = "minihttp_notls"

// Handshaker upgrades an established plaintext connection to a secure one. The serverName
// is used for SNI and certificate verification.
type Handshaker func(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error)

// Dialer opens connections. It holds no state besides the configuration, so a single
// instance is safe for concurrent use.
type Dialer struct {
	cfg       *config.Config
	log       *zap.Logger
	net       net.Dialer
	handshake Handshaker
}

func NewDialer(cfg *config.Config) *Dialer {
	return &Dialer{
		cfg:       cfg,
		log:       cfg.Logger(),
		handshake: newHandshaker(cfg.TLS),
	}
}

// WithHandshaker replaces the handshaker. Nil disables the secure transport, exactly as
// if the module was built without it.
func (d *Dialer) WithHandshaker(h Handshaker) *Dialer {
	d.handshake = h
	return d
}

// Secure reports whether the dialer is capable of opening secure connections.
func (d *Dialer) Secure() bool {
	return d.handshake != nil
}

// Dial opens a connection to the host and port. If secure is requested, but isn't
// available, it fails before any network activity takes place.
func (d *Dialer) Dial(ctx context.Context, host string, port uint16, secure bool) (Client, error) {
	if secure && !d.Secure() {
		return nil, httperr.New(
			httperr.CapabilityUnavailable, "secure transport is not built in (tag "+NoTLSTag+")",
		)
	}

	if timeout := d.cfg.NET.DialTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := d.net.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, dialError(addr, err)
	}

	if secure {
		tlsConn, err := d.handshake(ctx, conn, host)
		if err != nil {
			_ = conn.Close()
			return nil, httperr.Wrap(httperr.TLS, err, "handshake with "+addr)
		}

		conn = tlsConn
	}

	d.log.Debug("connection established",
		zap.String("addr", addr),
		zap.Stringer("remote", conn.RemoteAddr()),
		zap.Bool("secure", secure),
	)

	return NewClient(conn, d.cfg.NET.ReadTimeout, make([]byte, d.cfg.NET.ReadBufferSize)), nil
}

func dialError(addr string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return httperr.Wrap(httperr.Connection, err, "resolve "+addr)
	}

	return httperr.Wrap(httperr.Connection, err, "connect to "+addr)
}
