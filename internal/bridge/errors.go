package bridge

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/rue/internal/discovery"
	"github.com/muurk/rue/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the bridge refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx HTTP status
	ErrTypeHTTP
	// ErrTypeParse indicates a response that does not have the expected shape
	ErrTypeParse
	// ErrTypeRejected indicates the bridge answered with an API error,
	// usually because the link button has not been pressed
	ErrTypeRejected
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// BridgeError represents a failed authorization attempt against one bridge
type BridgeError struct {
	Type       ErrorType
	Message    string
	StatusCode int       // HTTP status code (if applicable)
	API        *APIError // bridge-reported error (Rejected only)
	Address    string    // bridge address (for context)
	Err        error
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error onto a BridgeError
func ClassifyNetworkError(err error, address string) *BridgeError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &BridgeError{Type: ErrTypeTimeout, Message: "request timed out", Address: address, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &BridgeError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Address: address,
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &BridgeError{Type: ErrTypeConnectionRefused, Message: "bridge refused connection", Address: address, Err: err}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &BridgeError{Type: ErrTypeNetwork, Message: "host unreachable", Address: address, Err: err}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &BridgeError{Type: ErrTypeNetwork, Message: "network unreachable", Address: address, Err: err}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, address)
	}

	return &BridgeError{Type: ErrTypeNetwork, Message: "network error occurred", Address: address, Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message, address string, err error) *BridgeError {
	classified := ClassifyNetworkError(err, address)
	if classified == nil {
		return &BridgeError{Type: ErrTypeNetwork, Message: message, Address: address}
	}
	classified.Message = message
	return classified
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, address, message string) *BridgeError {
	return &BridgeError{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode, Address: address}
}

// NewParseError creates a parsing error
func NewParseError(message, address string, err error) *BridgeError {
	return &BridgeError{Type: ErrTypeParse, Message: message, Address: address, Err: err}
}

// NewRejectedError wraps an API error reported by the bridge
func NewRejectedError(address string, api *APIError) *BridgeError {
	msg := "bridge rejected pairing request"
	if api != nil && api.Description != "" {
		msg = api.Description
	}
	return &BridgeError{Type: ErrTypeRejected, Message: msg, Address: address, API: api}
}

func typeOf(err error) (ErrorType, bool) {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Type, true
	}
	return ErrTypeUnknown, false
}

// IsNetworkError checks if an error is a transport failure (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := typeOf(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeParse
}

// IsRejected checks if the bridge answered with an API error
func IsRejected(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeRejected
}

// IsLinkButtonNotPressed checks for the specific "press the button" rejection
func IsLinkButtonNotPressed(err error) bool {
	var be *BridgeError
	if !errors.As(err, &be) || be.Type != ErrTypeRejected || be.API == nil {
		return false
	}
	return be.API.Type == ErrorLinkButtonNotPressed
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var be *BridgeError
	if !errors.As(err, &be) {
		return err.Error()
	}

	switch be.Type {
	case ErrTypeTimeout:
		return "Bridge not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Bridge refused connection"
	case ErrTypeDNS:
		return "Cannot resolve bridge hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Bridge error (HTTP %d)", be.StatusCode)
	case ErrTypeParse:
		return "Unexpected response from bridge"
	case ErrTypeRejected:
		if IsLinkButtonNotPressed(err) {
			return "Waiting for link button"
		}
		return "Bridge rejected pairing: " + be.Message
	default:
		return be.Message
	}
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var be *BridgeError
	if !errors.As(err, &be) {
		return "An unexpected error occurred. Please try again."
	}

	switch be.Type {
	case ErrTypeRejected:
		return strings.Join([]string{
			"The bridge is waiting for confirmation.",
			"Troubleshooting:",
			"  • Press the round link button on top of the bridge",
			"  • Pairing keeps retrying for about two minutes",
		}, "\n")

	case ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork:
		hint := []string{
			"The bridge could not be reached.",
			"Troubleshooting:",
			"  • Check that the bridge is powered on and its network light is lit",
			"  • Make sure this computer is on the same network as the bridge",
		}
		if be.Address != "" {
			hint = append(hint, "  • Try opening "+urls.DebugPage(discovery.URLHost(be.Address))+" in a browser")
		}
		return strings.Join(hint, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the bridge hostname.",
			"Troubleshooting:",
			"  • Use the bridge IP address instead (rue pair --bridge <ip>)",
		}, "\n")

	case ErrTypeHTTP, ErrTypeParse:
		return strings.Join([]string{
			"The device answered but does not look like a bridge.",
			"Troubleshooting:",
			"  • Verify the address belongs to the bridge",
			"  • Run 'rue discover' to list bridges on the network",
			"  • See " + urls.GettingStarted,
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}
