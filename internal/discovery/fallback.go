package discovery

import (
	"context"
	"fmt"
	"strings"
)

// Method names accepted by ParseMethod
const (
	MethodAuto      = "auto"
	MethodMDNS      = "mdns"
	MethodDirectory = "directory"
)

// Fallback tries each provider in order and returns the first non-empty result.
type Fallback struct {
	Providers []Provider
}

// NewFallback chains providers
func NewFallback(providers ...Provider) *Fallback {
	return &Fallback{Providers: providers}
}

// Name implements Provider
func (f *Fallback) Name() string {
	names := make([]string, len(f.Providers))
	for i, p := range f.Providers {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Discover returns the first provider's non-empty result. Empty results and
// NoCandidatesError move on to the next provider, as do discovery failures.
// If every provider fails the last DiscoveryError is returned; if they all
// came back empty the result is NoCandidatesError.
func (f *Fallback) Discover(ctx context.Context) ([]Candidate, error) {
	var lastErr error
	for _, p := range f.Providers {
		candidates, err := p.Discover(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !IsNoCandidates(err) {
				lastErr = err
			}
			continue
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &NoCandidatesError{Method: f.Name()}
}

// ParseMethod builds the provider for a method name: "mdns", "directory",
// or "auto" (mDNS first, then the lookup service).
func ParseMethod(method string, scanner *Scanner, directory *Directory) (Provider, error) {
	switch strings.ToLower(method) {
	case MethodMDNS:
		return scanner, nil
	case MethodDirectory:
		return directory, nil
	case MethodAuto, "":
		return NewFallback(scanner, directory), nil
	default:
		return nil, fmt.Errorf("unknown discovery method %q (want auto, mdns or directory)", method)
	}
}
