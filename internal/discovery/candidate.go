package discovery

import (
	"context"
	"fmt"
	"net"
)

// Source values for Candidate.Source
const (
	SourceMDNS      = "mdns"
	SourceDirectory = "directory"
	SourceManual    = "manual"
)

// Candidate is a bridge address worth attempting authorization against.
// The address is its only identity; candidates from different sources are
// never merged.
type Candidate struct {
	// Address is a host or IP, optionally with a port (e.g., "192.168.1.20")
	Address string

	// ID is the bridge identifier when the source reports one
	ID string

	// Port is the advertised port, 0 when unknown
	Port int

	// Source is the provider that produced the candidate
	Source string
}

// String returns a human-readable representation of the candidate
func (c Candidate) String() string {
	if c.ID != "" {
		return fmt.Sprintf("Bridge %s at %s (%s)", c.ID, c.Address, c.Source)
	}
	return fmt.Sprintf("Bridge at %s (%s)", c.Address, c.Source)
}

// URLHost returns the address in a form usable as a URL host.
// Bare IPv6 literals are bracketed.
func (c Candidate) URLHost() string {
	return URLHost(c.Address)
}

// URLHost brackets bare IPv6 literals and leaves everything else alone.
func URLHost(address string) string {
	if ip := net.ParseIP(address); ip != nil && ip.To4() == nil {
		return "[" + address + "]"
	}
	return address
}

// Manual wraps user-supplied addresses as candidates, skipping discovery.
func Manual(addresses ...string) []Candidate {
	out := make([]Candidate, 0, len(addresses))
	for _, a := range addresses {
		if a == "" {
			continue
		}
		out = append(out, Candidate{Address: a, Source: SourceManual})
	}
	return out
}

// Addresses returns the address of every candidate, in order.
func Addresses(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Address
	}
	return out
}

// Provider produces bridge candidates.
type Provider interface {
	// Name identifies the strategy in logs and errors
	Name() string

	// Discover returns the candidates found. An empty result with a nil
	// error means nothing was found and another strategy may be tried.
	Discover(ctx context.Context) ([]Candidate, error)
}
