// Package override redirects configured "host:port" strings to fixed socket
// addresses before any DNS resolution happens.
//
// The package has three parts:
//   - Table: the operator-configured list of from -> to mappings
//   - Resolver: the pluggable name-resolution strategy a transport consults
//   - Dialer: a net.Dialer front-end that installs a Resolver into an http.Transport
package override

import (
	"context"
	"net/netip"

	"github.com/marmos91/sysauth/internal/logger"
)

// Entry maps one "host:port" string to a socket address.
type Entry struct {
	// From is matched by exact string equality against the dialed address.
	From string

	// To must parse as "IP:port" ("[v6]:port" for IPv6). It is parsed at
	// lookup time; an unparseable value only disables its own entry.
	To string
}

// Table is an immutable set of address overrides.
type Table struct {
	entries []Entry
}

// NewTable creates a table over a copy of entries, preserving their order.
func NewTable(entries []Entry) *Table {
	return &Table{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of configured entries, valid or not.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the configured entries.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Lookup returns the socket addresses configured for netloc, in configuration
// order. Matching is exact: no wildcards, no case folding and no default port.
// Entries whose To does not parse are logged and skipped. An empty result
// means no override applies.
func (t *Table) Lookup(netloc string) []netip.AddrPort {
	if t == nil {
		return nil
	}

	var addrs []netip.AddrPort
	for _, e := range t.entries {
		if e.From != netloc {
			continue
		}

		addr, err := netip.ParseAddrPort(e.To)
		if err != nil {
			logger.Warn("Skipping unparseable address override",
				logger.Netloc(netloc),
				logger.KeyEntry, e.To,
				logger.Err(err),
			)
			continue
		}
		addrs = append(addrs, addr)
	}
	return addrs
}

// Resolve implements Resolver. It never consults DNS and never fails: no
// match yields (nil, nil).
func (t *Table) Resolve(_ context.Context, netloc string) ([]netip.AddrPort, error) {
	return t.Lookup(netloc), nil
}
