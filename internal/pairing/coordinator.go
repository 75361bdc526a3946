package pairing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
	"github.com/muurk/rue/internal/logging"
)

const (
	// DefaultMaxRounds is the number of rounds before giving up
	DefaultMaxRounds = 24

	// DefaultRoundDelay is the wait between rounds. With DefaultMaxRounds
	// this gives the user about two minutes to press the link button.
	DefaultRoundDelay = 5 * time.Second
)

// Authorizer performs one pairing attempt against one address.
// Implementations must be safe for concurrent use.
type Authorizer interface {
	Authorize(ctx context.Context, address string) (*credential.Credential, error)
}

// Saver persists the accepted credential
type Saver interface {
	Save(cred *credential.Credential) error
}

// Config holds the polling parameters
type Config struct {
	// MaxRounds is the round budget, at least 1
	MaxRounds int

	// RoundDelay is the wait between an exhausted round and the next one
	RoundDelay time.Duration
}

// DefaultConfig returns the standard budget of 24 rounds 5 seconds apart
func DefaultConfig() Config {
	return Config{
		MaxRounds:  DefaultMaxRounds,
		RoundDelay: DefaultRoundDelay,
	}
}

// Validate checks the polling parameters
func (c Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.MaxRounds)
	}
	if c.RoundDelay <= 0 {
		return fmt.Errorf("round delay must be positive, got %s", c.RoundDelay)
	}
	return nil
}

// Coordinator runs pairing rounds against every candidate until one bridge
// issues a credential or the round budget runs out.
type Coordinator struct {
	cfg        Config
	authorizer Authorizer
	saver      Saver
	provider   discovery.Provider
	observer   Observer
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithProvider sets the discovery provider used by Run
func WithProvider(p discovery.Provider) Option {
	return func(c *Coordinator) { c.provider = p }
}

// WithObserver sets the progress observer
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates a Coordinator
func New(cfg Config, authorizer Authorizer, saver Saver, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if authorizer == nil {
		return nil, errors.New("pairing: nil authorizer")
	}
	if saver == nil {
		return nil, errors.New("pairing: nil saver")
	}

	c := &Coordinator{
		cfg:        cfg,
		authorizer: authorizer,
		saver:      saver,
		observer:   NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run discovers candidates with the configured provider and polls them.
// Discovery errors are returned as-is and no round is started when nothing
// was found.
func (c *Coordinator) Run(ctx context.Context) (*credential.Credential, error) {
	if c.provider == nil {
		return nil, errors.New("pairing: no discovery provider configured")
	}

	candidates, err := c.provider.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &discovery.NoCandidatesError{Method: c.provider.Name()}
	}
	return c.Poll(ctx, candidates)
}

// Poll runs rounds against the given candidates. Rounds are strictly
// sequential. The first credential observed is saved and returned; when the
// budget is spent the error is *NoCredentialError and nothing is saved.
func (c *Coordinator) Poll(ctx context.Context, candidates []discovery.Candidate) (*credential.Credential, error) {
	if len(candidates) == 0 {
		return nil, &discovery.NoCandidatesError{}
	}

	runID := uuid.NewString()
	total := c.cfg.MaxRounds
	logging.Info("Pairing started",
		zap.String("run_id", runID),
		zap.Strings("bridges", discovery.Addresses(candidates)),
		zap.Int("max_rounds", total),
		zap.Duration("round_delay", c.cfg.RoundDelay),
	)

	var (
		accepted *credential.Credential
		round    int
	)

	backoff := retry.WithMaxRetries(uint64(total-1), retry.NewConstant(c.cfg.RoundDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		round++
		c.observer.RoundStarted(round, total, candidates)
		logging.LogRound(runID, round, total, "started")

		if cred := c.round(ctx, runID, round, candidates); cred != nil {
			accepted = cred
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		next := c.cfg.RoundDelay
		if round >= total {
			next = 0
		}
		logging.LogRound(runID, round, total, "exhausted")
		c.observer.RoundExhausted(round, total, next)
		return retry.RetryableError(errRoundExhausted)
	})

	if accepted == nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil && !errors.Is(err, errRoundExhausted) {
			return nil, err
		}
		noCred := &NoCredentialError{Rounds: round, Candidates: discovery.Addresses(candidates)}
		logging.Warn("Pairing gave up", zap.String("run_id", runID), zap.Error(noCred))
		return nil, noCred
	}

	if err := c.saver.Save(accepted); err != nil {
		var perr *credential.PersistenceError
		if !errors.As(err, &perr) {
			err = &credential.PersistenceError{Op: "save", Err: err}
		}
		logging.Error("Failed to save credential", zap.String("run_id", runID), zap.Error(err))
		return nil, err
	}

	logging.Info("Pairing succeeded",
		zap.String("run_id", runID),
		zap.String("bridge", accepted.BridgeAddress),
		zap.Int("round", round),
	)
	c.observer.Paired(accepted)
	return accepted, nil
}

// round fans out one attempt per candidate and returns the first credential
// observed, or nil once every attempt has reported.
//
// If several bridges issue a credential in the same round, whichever result
// arrives first wins. This is a race and deliberately nondeterministic; the
// others are dropped.
//
// The results channel is buffered to len(candidates) so attempts still
// running after the round is decided finish their send without a reader.
// Their context is cancelled on return to cut those requests short.
func (c *Coordinator) round(parent context.Context, runID string, round int, candidates []discovery.Candidate) *credential.Credential {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make(chan Outcome, len(candidates))
	for _, candidate := range candidates {
		go func() {
			start := time.Now()
			cred, err := c.authorizer.Authorize(ctx, candidate.Address)
			results <- Classify(candidate, cred, err, time.Since(start))
		}()
	}

	for range candidates {
		select {
		case out := <-results:
			logging.LogAttempt(runID, round, out.Candidate.Address, out.Kind.String(), out.Elapsed, out.Err)
			c.observer.AttemptFinished(round, out)
			if out.Kind == OutcomeCredential {
				return out.Credential
			}
		case <-parent.Done():
			return nil
		}
	}
	return nil
}
