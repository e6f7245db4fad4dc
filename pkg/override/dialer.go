package override

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/marmos91/sysauth/internal/logger"
)

// Timeouts bounds every network operation performed through a Dialer.
// Zero disables the corresponding bound.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

// Uniform returns Timeouts with the same bound for connect, read and write.
func Uniform(d time.Duration) Timeouts {
	return Timeouts{Connect: d, Read: d, Write: d}
}

// Dialer dials TCP connections, consulting a Resolver first.
//
// Its DialContext method has the signature expected by
// http.Transport.DialContext, which is how the override policy reaches the
// HTTP layer without the transport knowing about it.
type Dialer struct {
	resolver Resolver
	timeouts Timeouts
	observe  func(netloc string, addr netip.AddrPort, err error)
}

// DialerOption configures a Dialer.
type DialerOption func(*Dialer)

// WithDialObserver registers fn to be called after every attempt to connect
// to an override address. err is nil when the attempt succeeded.
func WithDialObserver(fn func(netloc string, addr netip.AddrPort, err error)) DialerOption {
	return func(d *Dialer) {
		d.observe = fn
	}
}

// NewDialer creates a dialer. A nil resolver disables overrides.
func NewDialer(resolver Resolver, timeouts Timeouts, opts ...DialerOption) *Dialer {
	if resolver == nil {
		resolver = noResolver{}
	}
	d := &Dialer{resolver: resolver, timeouts: timeouts}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DialContext connects to address ("host:port").
//
// When the resolver returns addresses they are tried in order and the first
// successful connection wins. When it returns none, address is dialed
// directly and the system resolver handles the name.
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	addrs, err := d.resolver.Resolve(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("resolve override for %s: %w", address, err)
	}

	nd := &net.Dialer{Timeout: d.timeouts.Connect}

	if len(addrs) == 0 {
		conn, err := nd.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		return d.wrap(conn), nil
	}

	errs := make([]error, 0, len(addrs))
	for _, addr := range addrs {
		conn, err := nd.DialContext(ctx, network, addr.String())
		if d.observe != nil {
			d.observe(address, addr, err)
		}
		if err == nil {
			logger.Debug("Dialed override address",
				logger.Netloc(address),
				logger.KeyAddress, addr.String(),
			)
			return d.wrap(conn), nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("dial %s via %d override address(es): %w", address, len(addrs), errors.Join(errs...))
}

func (d *Dialer) wrap(conn net.Conn) net.Conn {
	if d.timeouts.Read <= 0 && d.timeouts.Write <= 0 {
		return conn
	}
	return &deadlineConn{Conn: conn, read: d.timeouts.Read, write: d.timeouts.Write}
}

// deadlineConn refreshes the read or write deadline before every operation,
// so each individual read and write is bounded rather than the connection as
// a whole.
type deadlineConn struct {
	net.Conn
	read  time.Duration
	write time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if c.write > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.write)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}
