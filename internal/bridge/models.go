package bridge

import "fmt"

// ErrorLinkButtonNotPressed is the API error type a bridge reports until its
// link button has been pressed.
const ErrorLinkButtonNotPressed = 101

// PairRequest is the body POSTed to /api
type PairRequest struct {
	DeviceType string `json:"devicetype"`
}

// APIError is the object a bridge returns under the "error" key
type APIError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// String returns a human-readable representation of the API error
func (e *APIError) String() string {
	return fmt.Sprintf("error %d at %q: %s", e.Type, e.Address, e.Description)
}

// PairSuccess is the object a bridge returns under the "success" key
type PairSuccess struct {
	Username string `json:"username"`
}

// pairResult is one element of the response array. Exactly one of the two
// fields is expected to be set.
type pairResult struct {
	Success *PairSuccess `json:"success,omitempty"`
	Error   *APIError    `json:"error,omitempty"`
}
