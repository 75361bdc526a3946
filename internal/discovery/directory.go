package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/rue/internal/logging"
)

const (
	// DefaultDirectoryURL is the public lookup service that lists bridges
	// registered from the caller's public IP address.
	DefaultDirectoryURL = "https://discovery.meethue.com/"

	// DefaultDirectoryTimeout bounds the single lookup request
	DefaultDirectoryTimeout = 10 * time.Second

	// maxDirectoryBody caps how much of the response is read
	maxDirectoryBody = 1 << 20
)

// directoryEntry is one element of the lookup service's JSON array
type directoryEntry struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
	Port              int    `json:"port"`
}

// Directory discovers bridges by asking the remote lookup service
type Directory struct {
	// URL is the lookup endpoint
	URL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewDirectory creates a lookup client with the default endpoint and timeout
func NewDirectory() *Directory {
	return &Directory{
		URL:        DefaultDirectoryURL,
		HTTPClient: &http.Client{Timeout: DefaultDirectoryTimeout},
	}
}

// Name implements Provider
func (d *Directory) Name() string {
	return SourceDirectory
}

// Discover issues one GET to the lookup service. A reachable service that
// knows of no bridges yields *NoCandidatesError.
func (d *Directory) Discover(ctx context.Context) ([]Candidate, error) {
	start := time.Now()
	candidates, err := d.lookup(ctx)
	logging.LogDiscovery(SourceDirectory, len(candidates), time.Since(start), err)
	return candidates, err
}

func (d *Directory) lookup(ctx context.Context) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, d.fail("failed to create lookup request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, d.fail("lookup request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, d.fail(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var entries []directoryEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDirectoryBody)).Decode(&entries); err != nil {
		return nil, d.fail("failed to decode lookup response", err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		if e.InternalIPAddress == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Address: e.InternalIPAddress,
			ID:      strings.ToLower(e.ID),
			Port:    e.Port,
			Source:  SourceDirectory,
		})
	}

	if len(candidates) == 0 {
		return nil, &NoCandidatesError{Method: SourceDirectory}
	}
	return candidates, nil
}

func (d *Directory) fail(message string, err error) *DiscoveryError {
	return &DiscoveryError{Method: SourceDirectory, Message: message, Err: err}
}
