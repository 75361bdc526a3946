package pairing

import (
	"errors"
	"fmt"
	"strings"
)

// errRoundExhausted marks a round that ended without a credential
var errRoundExhausted = errors.New("round finished without a credential")

// NoCredentialError is returned when every round in the budget ended without
// a bridge issuing a credential.
type NoCredentialError struct {
	Rounds     int
	Candidates []string
}

func (e *NoCredentialError) Error() string {
	return fmt.Sprintf("no bridge responded to pairing after %d rounds (tried %s)",
		e.Rounds, strings.Join(e.Candidates, ", "))
}

// IsNoCredential reports whether err is or wraps a *NoCredentialError
func IsNoCredential(err error) bool {
	var target *NoCredentialError
	return errors.As(err, &target)
}
