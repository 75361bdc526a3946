package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/rue/internal/bridge"
	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/pairing"
)

// RoundStartedMsg is sent when a pairing round begins
type RoundStartedMsg struct {
	Round      int
	Total      int
	Candidates []string
}

// AttemptMsg is sent for each attempt outcome
type AttemptMsg struct {
	Round   int
	Address string
	Kind    pairing.OutcomeKind
	Detail  string
}

// RoundExhaustedMsg is sent when a round ends without a credential
type RoundExhaustedMsg struct {
	Round int
	Total int
	Next  time.Duration
}

// kindPending marks a bridge with no attempt reported yet
const kindPending pairing.OutcomeKind = -1

// DoneMsg ends the pairing screen
type DoneMsg struct {
	Credential *credential.Credential
	Err        error
}

// PairingModel is the bubbletea model for the live pairing screen
type PairingModel struct {
	spinner spinner.Model
	bar     progress.Model
	cancel  context.CancelFunc

	round  int
	total  int
	status map[string]AttemptMsg
	next   time.Duration

	result  *credential.Credential
	err     error
	done    bool
	aborted bool
	width   int
}

// NewPairingModel creates the pairing screen. cancel is invoked when the
// user quits so the coordinator stops polling.
func NewPairingModel(cancel context.CancelFunc, total int) PairingModel {
	width := GetTerminalWidth()
	return PairingModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(HintStyle.PaddingLeft(0)),
		),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(width-20),
		),
		cancel: cancel,
		total:  total,
		status: make(map[string]AttemptMsg),
		width:  width,
	}
}

// Init implements tea.Model
func (m PairingModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m PairingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		m.bar.Width = m.width - 20

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RoundStartedMsg:
		m.round = msg.Round
		m.total = msg.Total
		m.next = 0
		for _, addr := range msg.Candidates {
			if _, ok := m.status[addr]; !ok {
				m.status[addr] = AttemptMsg{Address: addr, Kind: kindPending}
			}
		}

	case AttemptMsg:
		m.status[msg.Address] = msg

	case RoundExhaustedMsg:
		m.next = msg.Next

	case DoneMsg:
		m.done = true
		m.result = msg.Credential
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m PairingModel) View() string {
	if m.done {
		return m.resultView()
	}
	if m.aborted {
		return "\n" + MutedStyle.PaddingLeft(2).Render("Pairing cancelled.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("Pairing with bridge"))
	b.WriteString("\n\n")
	b.WriteString(HintStyle.Render("Press the link button on your bridge now."))
	b.WriteString("\n\n")

	percent := 0.0
	if m.total > 0 && m.round > 0 {
		percent = float64(m.round) / float64(m.total)
	}
	b.WriteString("  " + m.bar.ViewAs(percent))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  round %d/%d", m.round, m.total)))
	b.WriteString("\n\n")

	for _, addr := range m.sortedAddresses() {
		b.WriteString(BridgeStyle.Render(m.attemptLine(m.status[addr])))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(m.spinner.View())
	if m.next > 0 {
		b.WriteString(MutedStyle.Render(fmt.Sprintf(" retrying in %s", m.next)))
	} else {
		b.WriteString(MutedStyle.Render(" waiting for bridges"))
	}
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.PaddingLeft(2).Render("q to cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m PairingModel) attemptLine(a AttemptMsg) string {
	switch a.Kind {
	case pairing.OutcomeCredential:
		return SuccessTitleStyle.Render(SuccessMarker) + " " + a.Address
	case pairing.OutcomeRejected:
		return HintStyle.PaddingLeft(0).Render(WaitingMarker) + " " + a.Address + MutedStyle.Render("  "+a.Detail)
	case pairing.OutcomeUnreachable, pairing.OutcomeMalformed:
		return ErrorMessageStyle.Render(FailureMarker) + " " + a.Address + MutedStyle.Render("  "+a.Detail)
	default:
		return MutedStyle.Render(PendingMarker) + " " + a.Address
	}
}

func (m PairingModel) resultView() string {
	if m.err != nil {
		body := ErrorTitleStyle.Render(FailureMarker+" Pairing failed") + "\n\n" +
			ErrorMessageStyle.Render(DescribeError(m.err))
		return "\n" + BoxStyle(m.width, ErrorColor).Render(body) + "\n"
	}
	if m.result == nil {
		return ""
	}
	body := SuccessTitleStyle.Render(SuccessMarker+" Paired") + "\n\n" +
		ResultKeyStyle.Render("Bridge") + ResultValueStyle.Render(m.result.BridgeAddress) + "\n" +
		ResultKeyStyle.Render("Username") + ResultValueStyle.Render(credential.Redact(m.result.Username))
	return "\n" + BoxStyle(m.width, SuccessColor).Render(body) + "\n"
}

func (m PairingModel) sortedAddresses() []string {
	out := make([]string, 0, len(m.status))
	for addr := range m.status {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// Result returns the final credential and error once the program exits
func (m PairingModel) Result() (*credential.Credential, error, bool) {
	return m.result, m.err, m.aborted
}

func clampWidth(w int) int {
	if w < MinTerminalWidth {
		return MinTerminalWidth
	}
	if w > MaxContentWidth {
		return MaxContentWidth
	}
	return w
}

// AttemptDetail is the short status shown next to a bridge address
func AttemptDetail(o pairing.Outcome) string {
	if o.Err == nil {
		return ""
	}
	return bridge.GetShortErrorMessage(o.Err)
}
