package pairing

import (
	"fmt"
	"time"

	"github.com/muurk/rue/internal/bridge"
	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
)

// OutcomeKind classifies one authorization attempt
type OutcomeKind int

const (
	// OutcomeCredential means the bridge issued a credential
	OutcomeCredential OutcomeKind = iota
	// OutcomeRejected means the bridge answered but refused, usually because
	// the link button has not been pressed yet
	OutcomeRejected
	// OutcomeUnreachable means the request never got an answer
	OutcomeUnreachable
	// OutcomeMalformed means the answer was not a pairing response
	OutcomeMalformed
)

// String returns the outcome name used in logs
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCredential:
		return "credential"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", k)
	}
}

// Outcome is the result of one attempt against one candidate in one round
type Outcome struct {
	Candidate  discovery.Candidate
	Kind       OutcomeKind
	Credential *credential.Credential // set only for OutcomeCredential
	Err        error                  // nil only for OutcomeCredential
	Elapsed    time.Duration
}

// Classify turns an Authorize result into an Outcome
func Classify(candidate discovery.Candidate, cred *credential.Credential, err error, elapsed time.Duration) Outcome {
	out := Outcome{Candidate: candidate, Err: err, Elapsed: elapsed}

	switch {
	case err == nil && cred != nil:
		out.Kind = OutcomeCredential
		out.Credential = cred
	case err == nil:
		out.Kind = OutcomeMalformed
		out.Err = fmt.Errorf("bridge %s returned neither credential nor error", candidate.Address)
	case bridge.IsRejected(err):
		out.Kind = OutcomeRejected
	case bridge.IsParseError(err), bridge.IsHTTPError(err):
		out.Kind = OutcomeMalformed
	default:
		out.Kind = OutcomeUnreachable
	}
	return out
}
