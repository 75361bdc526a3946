package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
)

const (
	// DefaultDeviceType identifies this application to the bridge
	DefaultDeviceType = "rue_pc_app"

	// DefaultTimeout bounds a single authorization attempt. It is shorter
	// than the round delay so one silent candidate cannot hold up a round.
	DefaultTimeout = 4 * time.Second

	// APIPath is the pairing endpoint on every bridge
	APIPath = "/api"

	// maxResponseBody caps how much of a response is read
	maxResponseBody = 64 << 10
)

// Client sends pairing requests to bridges. It holds no per-bridge state and
// is safe for concurrent use.
type Client struct {
	// DeviceType is sent as "devicetype" in every request
	DeviceType string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a pairing client with the default device type and timeout
func NewClient() *Client {
	return &Client{
		DeviceType: DefaultDeviceType,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the per-attempt HTTP timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// PairURL returns the pairing endpoint for an address
func PairURL(address string) string {
	return "http://" + discovery.URLHost(address) + APIPath
}

// Authorize performs one pairing exchange with the bridge at address.
//
// On success the returned credential carries the issued username and the
// address. A bridge that answers with an API error (typically 101, link
// button not pressed) yields a Rejected BridgeError; transport failures are
// classified network errors; anything that is not the expected JSON shape is
// a parse error.
func (c *Client) Authorize(ctx context.Context, address string) (*credential.Credential, error) {
	body, err := json.Marshal(PairRequest{DeviceType: c.DeviceType})
	if err != nil {
		return nil, NewParseError("failed to encode pairing request", address, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, PairURL(address), bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError("failed to create pairing request", address, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("pairing request failed", address, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", address, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, address, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	return parsePairResponse(address, data)
}

// parsePairResponse interprets the first element of the response array
func parsePairResponse(address string, data []byte) (*credential.Credential, error) {
	var results []pairResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, NewParseError("failed to parse pairing response", address, err)
	}
	if len(results) == 0 {
		return nil, NewParseError("empty pairing response", address, nil)
	}

	first := results[0]
	switch {
	case first.Success != nil:
		if first.Success.Username == "" {
			return nil, NewParseError("success response without username", address, nil)
		}
		return &credential.Credential{
			Username:      first.Success.Username,
			BridgeAddress: address,
		}, nil
	case first.Error != nil:
		return nil, NewRejectedError(address, first.Error)
	default:
		return nil, NewParseError("response has neither success nor error", address, nil)
	}
}
