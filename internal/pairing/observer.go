package pairing

import (
	"time"

	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
)

// Observer receives progress callbacks from a Coordinator. Calls are made
// from the goroutine running Poll, one at a time and in order.
type Observer interface {
	// RoundStarted is called before a round's attempts are launched
	RoundStarted(round, total int, candidates []discovery.Candidate)

	// AttemptFinished is called for each outcome observed, in completion order.
	// Results discarded after a round has been won are not reported.
	AttemptFinished(round int, outcome Outcome)

	// RoundExhausted is called when a round ends without a credential.
	// next is the wait before the following round, 0 for the last round.
	RoundExhausted(round, total int, next time.Duration)

	// Paired is called once the accepted credential has been saved
	Paired(cred *credential.Credential)
}

// NopObserver ignores every callback
type NopObserver struct{}

func (NopObserver) RoundStarted(int, int, []discovery.Candidate) {}
func (NopObserver) AttemptFinished(int, Outcome)                 {}
func (NopObserver) RoundExhausted(int, int, time.Duration)        {}
func (NopObserver) Paired(*credential.Credential)                 {}
