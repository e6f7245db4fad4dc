package override

import (
	"context"
	"net/netip"
)

// Resolver is the name-resolution strategy consulted by Dialer before it
// falls back to ordinary dialing.
//
// Implementations return the addresses to try for a "host:port" netloc. An
// empty result with a nil error means "no opinion": the transport resolves
// the name the usual way. *Table is the production implementation.
type Resolver interface {
	Resolve(ctx context.Context, netloc string) ([]netip.AddrPort, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, netloc string) ([]netip.AddrPort, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, netloc string) ([]netip.AddrPort, error) {
	return f(ctx, netloc)
}

// noResolver never overrides anything.
type noResolver struct{}

func (noResolver) Resolve(context.Context, string) ([]netip.AddrPort, error) {
	return nil, nil
}
