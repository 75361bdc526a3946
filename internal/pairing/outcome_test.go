package pairing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/muurk/rue/internal/bridge"
	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
)

func TestClassify(t *testing.T) {
	candidate := discovery.Candidate{Address: "10.0.0.5"}
	cred := &credential.Credential{Username: "abc", BridgeAddress: "10.0.0.5"}

	tests := []struct {
		name string
		cred *credential.Credential
		err  error
		want OutcomeKind
	}{
		{"credential", cred, nil, OutcomeCredential},
		{"rejected", nil, bridge.NewRejectedError("10.0.0.5", &bridge.APIError{Type: 101}), OutcomeRejected},
		{"network", nil, bridge.NewNetworkError("pairing request failed", "10.0.0.5", errors.New("refused")), OutcomeUnreachable},
		{"parse", nil, bridge.NewParseError("empty pairing response", "10.0.0.5", nil), OutcomeMalformed},
		{"http", nil, bridge.NewHTTPError(404, "10.0.0.5", "unexpected status code: 404"), OutcomeMalformed},
		{"foreign error", nil, errors.New("boom"), OutcomeUnreachable},
		{"nothing at all", nil, nil, OutcomeMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(candidate, tt.cred, tt.err, time.Millisecond)
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, candidate, out.Candidate)
			if tt.want == OutcomeCredential {
				assert.Same(t, cred, out.Credential)
				assert.NoError(t, out.Err)
			} else {
				assert.Nil(t, out.Credential)
				assert.Error(t, out.Err)
			}
		})
	}
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "credential", OutcomeCredential.String())
	assert.Equal(t, "rejected", OutcomeRejected.String())
	assert.Equal(t, "unreachable", OutcomeUnreachable.String())
	assert.Equal(t, "malformed", OutcomeMalformed.String())
	assert.Equal(t, "OutcomeKind(9)", OutcomeKind(9).String())
}

func TestNoCredentialError(t *testing.T) {
	err := &NoCredentialError{Rounds: 24, Candidates: []string{"10.0.0.5", "10.0.0.6"}}
	assert.Equal(t, "no bridge responded to pairing after 24 rounds (tried 10.0.0.5, 10.0.0.6)", err.Error())
	assert.True(t, IsNoCredential(err))
	assert.False(t, IsNoCredential(errors.New("other")))
}
