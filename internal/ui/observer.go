package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/rue/internal/bridge"
	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
	"github.com/muurk/rue/internal/pairing"
	"github.com/muurk/rue/internal/urls"
)

// Sender delivers messages into a running bubbletea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramObserver forwards coordinator progress to a bubbletea program
type ProgramObserver struct {
	sender Sender
}

// NewProgramObserver returns an observer that sends to s
func NewProgramObserver(s Sender) *ProgramObserver {
	return &ProgramObserver{sender: s}
}

func (o *ProgramObserver) RoundStarted(round, total int, candidates []discovery.Candidate) {
	o.sender.Send(RoundStartedMsg{
		Round:      round,
		Total:      total,
		Candidates: discovery.Addresses(candidates),
	})
}

func (o *ProgramObserver) AttemptFinished(round int, outcome pairing.Outcome) {
	o.sender.Send(AttemptMsg{
		Round:   round,
		Address: outcome.Candidate.Address,
		Kind:    outcome.Kind,
		Detail:  AttemptDetail(outcome),
	})
}

func (o *ProgramObserver) RoundExhausted(round, total int, next time.Duration) {
	o.sender.Send(RoundExhaustedMsg{Round: round, Total: total, Next: next})
}

// Paired is a no-op; the final result arrives as a DoneMsg
func (o *ProgramObserver) Paired(*credential.Credential) {}

// TextObserver writes one line per event, for non-interactive output
type TextObserver struct {
	w        io.Writer
	prompted bool
}

// NewTextObserver returns an observer that writes to w
func NewTextObserver(w io.Writer) *TextObserver {
	return &TextObserver{w: w}
}

func (o *TextObserver) RoundStarted(round, total int, candidates []discovery.Candidate) {
	if !o.prompted {
		_, _ = fmt.Fprintln(o.w, "Press the link button on your bridge now.")
		o.prompted = true
	}
	_, _ = fmt.Fprintf(o.w, "Round %d/%d: %s\n", round, total,
		strings.Join(discovery.Addresses(candidates), ", "))
}

func (o *TextObserver) AttemptFinished(_ int, outcome pairing.Outcome) {
	marker := FailureMarker
	switch outcome.Kind {
	case pairing.OutcomeCredential:
		marker = SuccessMarker
	case pairing.OutcomeRejected:
		marker = WaitingMarker
	}
	line := fmt.Sprintf("  %s %s", marker, outcome.Candidate.Address)
	if detail := AttemptDetail(outcome); detail != "" {
		line += "  " + detail
	}
	_, _ = fmt.Fprintln(o.w, line)
}

func (o *TextObserver) RoundExhausted(_, _ int, next time.Duration) {
	if next > 0 {
		_, _ = fmt.Fprintf(o.w, "  retrying in %s\n", next)
	}
}

func (o *TextObserver) Paired(cred *credential.Credential) {
	_, _ = fmt.Fprintf(o.w, "Paired with %s\n", cred.BridgeAddress)
}

// PairFunc runs pairing with the given observer
type PairFunc func(ctx context.Context, obs pairing.Observer) (*credential.Credential, error)

type pairResult struct {
	cred *credential.Credential
	err  error
}

// RunPairing shows the interactive pairing screen while fn runs. Quitting
// the screen cancels the context passed to fn, and RunPairing waits for fn
// to return before reporting.
func RunPairing(ctx context.Context, totalRounds int, fn PairFunc, opts ...tea.ProgramOption) (*credential.Credential, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewPairingModel(cancel, totalRounds)
	p := tea.NewProgram(model, opts...)

	results := make(chan pairResult, 1)
	go func() {
		cred, err := fn(ctx, NewProgramObserver(p))
		results <- pairResult{cred: cred, err: err}
		p.Send(DoneMsg{Credential: cred, Err: err})
	}()

	final, runErr := p.Run()
	cancel()
	res := <-results

	if runErr != nil && res.cred == nil {
		return nil, fmt.Errorf("failed to run pairing screen: %w", runErr)
	}
	return settle(final, res)
}

// settle picks what to report once both the screen and fn have finished.
// A credential that was saved is reported even if the user quit meanwhile.
func settle(final tea.Model, res pairResult) (*credential.Credential, error) {
	if res.err == nil && res.cred != nil {
		return res.cred, nil
	}
	if m, ok := final.(PairingModel); ok {
		if _, _, aborted := m.Result(); aborted {
			return nil, context.Canceled
		}
	}
	if res.err == nil {
		return nil, errors.New("pairing ended without a result")
	}
	return nil, res.err
}

// DescribeError returns the message and troubleshooting hint shown to the
// user when pairing fails.
func DescribeError(err error) string {
	var (
		noCred  *pairing.NoCredentialError
		persist *credential.PersistenceError
	)

	switch {
	case errors.As(err, &noCred):
		return strings.Join([]string{
			"No bridge responded to pairing.",
			"Troubleshooting:",
			"  • Press the round link button on top of the bridge, then run pairing again",
			"  • Pairing waits about two minutes for the button",
		}, "\n")

	case discovery.IsNoCandidates(err):
		return strings.Join([]string{
			"No bridges found.",
			"Troubleshooting:",
			"  • Make sure the bridge is powered on and connected to your network",
			"  • Pass the address directly with --bridge <ip>",
			"  • See " + urls.BridgeDiscovery,
		}, "\n")

	case discovery.IsDiscoveryError(err):
		return err.Error() + "\n\nTry --method mdns, --method directory or --bridge <ip>."

	case errors.As(err, &persist):
		return fmt.Sprintf("Paired, but the credential could not be saved to %s:\n  %v\n\nCheck permissions on that directory and try again.",
			persist.Path, persist.Err)

	case errors.Is(err, context.Canceled):
		return "Pairing cancelled."

	default:
		var be *bridge.BridgeError
		if errors.As(err, &be) {
			return bridge.GetShortErrorMessage(err) + "\n\n" + bridge.GetTroubleshootingHint(err)
		}
		return err.Error()
	}
}
