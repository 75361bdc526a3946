package discovery

import (
	"errors"
	"fmt"
)

// DiscoveryError reports a transport, bind or decode failure in a strategy.
type DiscoveryError struct {
	Method  string // provider name
	Message string
	Err     error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s discovery: %s: %v", e.Method, e.Message, e.Err)
	}
	return fmt.Sprintf("%s discovery: %s", e.Method, e.Message)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// NoCandidatesError means discovery worked but found no bridges.
type NoCandidatesError struct {
	Method string
}

func (e *NoCandidatesError) Error() string {
	if e.Method == "" {
		return "no bridges found"
	}
	return fmt.Sprintf("no bridges found (%s)", e.Method)
}

// IsDiscoveryError reports whether err is or wraps a *DiscoveryError
func IsDiscoveryError(err error) bool {
	var target *DiscoveryError
	return errors.As(err, &target)
}

// IsNoCandidates reports whether err is or wraps a *NoCandidatesError
func IsNoCandidates(err error) bool {
	var target *NoCandidatesError
	return errors.As(err, &target)
}
