package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/rue/internal/logging"
)

const (
	// ServiceType is the mDNS service type bridges advertise
	ServiceType = "_hue._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is how long the scanner listens before giving up.
	// Advertisements routinely take a few hundred milliseconds to arrive.
	DefaultScanTimeout = 3 * time.Second
)

// browseFunc starts an mDNS browse that delivers entries until ctx is done.
// It must return promptly; results arrive asynchronously on entries, which
// the browser closes once ctx is done. zeroconf's Resolver.Browse behaves so.
type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// Scanner discovers bridges through mDNS advertisements
type Scanner struct {
	// Timeout is the maximum time to listen for advertisements
	Timeout time.Duration

	browse browseFunc
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		browse:  zeroconfBrowse,
	}
}

func zeroconfBrowse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	return resolver.Browse(ctx, service, domain, entries)
}

// Name implements Provider
func (s *Scanner) Name() string {
	return SourceMDNS
}

// Discover listens for bridge advertisements and returns as soon as one
// resolves to a usable address. When the listening window elapses without a
// usable advertisement the result is empty and the error is nil.
func (s *Scanner) Discover(ctx context.Context) ([]Candidate, error) {
	start := time.Now()
	parent := ctx

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan Candidate, 1)

	// Drain until the resolver closes the channel; it blocks on every send
	// and only closes once ctx is done.
	browseFailed := make(chan struct{})
	go func() {
		sent := false
		for {
			select {
			case <-browseFailed:
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if sent {
					continue
				}
				candidate, ok := parseServiceEntry(entry)
				if !ok {
					logging.Debug("Advertisement has no usable address",
						zap.String("instance", entry.Instance),
						zap.String("hostname", entry.HostName),
					)
					continue
				}
				found <- candidate
				sent = true
			}
		}
	}()

	if err := s.browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		close(browseFailed)
		derr := &DiscoveryError{Method: SourceMDNS, Message: "failed to browse for mDNS services", Err: err}
		logging.LogDiscovery(SourceMDNS, 0, time.Since(start), derr)
		return nil, derr
	}

	select {
	case candidate := <-found:
		logging.LogDiscovery(SourceMDNS, 1, time.Since(start), nil)
		return []Candidate{candidate}, nil
	case <-ctx.Done():
		if err := parent.Err(); err != nil {
			return nil, err
		}
		logging.LogDiscovery(SourceMDNS, 0, time.Since(start), nil)
		return []Candidate{}, nil
	}
}

// parseServiceEntry extracts a candidate from an advertisement.
// IPv4 is preferred; an IPv6-only advertisement is still usable.
func parseServiceEntry(entry *zeroconf.ServiceEntry) (Candidate, bool) {
	if entry == nil {
		return Candidate{}, false
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		if addr != nil {
			ip = addr.String()
			break
		}
	}
	if ip == "" {
		for _, addr := range entry.AddrIPv6 {
			if addr != nil {
				ip = addr.String()
				break
			}
		}
	}
	if ip == "" {
		return Candidate{}, false
	}

	txt := parseTXT(entry.Text)

	return Candidate{
		Address: ip,
		ID:      strings.ToLower(txt["bridgeid"]),
		Port:    entry.Port,
		Source:  SourceMDNS,
	}, true
}

// parseTXT splits "key=value" records; a bare key maps to "".
func parseTXT(records []string) map[string]string {
	out := make(map[string]string, len(records))
	for _, txt := range records {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		} else {
			out[parts[0]] = ""
		}
	}
	return out
}
