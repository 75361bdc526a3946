package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectoryServer(t *testing.T, status int, body string) *Directory {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Request method = %s, want GET", r.Method)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	d := NewDirectory()
	d.URL = server.URL
	return d
}

func TestDirectory_Success(t *testing.T) {
	d := newDirectoryServer(t, http.StatusOK,
		`[{"id":"001788FFFE1A2B3C","internalipaddress":"192.168.1.20","port":443},
		  {"id":"001788fffe4d5e6f","internalipaddress":"192.168.1.21"}]`)

	got, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Candidate{Address: "192.168.1.20", ID: "001788fffe1a2b3c", Port: 443, Source: SourceDirectory}, got[0])
	assert.Equal(t, "192.168.1.21", got[1].Address)
}

func TestDirectory_EmptyList(t *testing.T) {
	d := newDirectoryServer(t, http.StatusOK, `[]`)

	got, err := d.Discover(context.Background())
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, IsNoCandidates(err), "want NoCandidatesError, got %T", err)
	assert.False(t, IsDiscoveryError(err))
}

func TestDirectory_EntriesWithoutAddress(t *testing.T) {
	d := newDirectoryServer(t, http.StatusOK, `[{"id":"abc"}]`)

	_, err := d.Discover(context.Background())
	assert.True(t, IsNoCandidates(err))
}

func TestDirectory_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"malformed json", http.StatusOK, `{"not":"an array"`},
		{"object instead of array", http.StatusOK, `{"id":"abc"}`},
		{"rate limited", http.StatusTooManyRequests, `slow down`},
		{"server error", http.StatusInternalServerError, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDirectoryServer(t, tt.status, tt.body)
			_, err := d.Discover(context.Background())
			require.Error(t, err)
			assert.True(t, IsDiscoveryError(err), "want DiscoveryError, got %T: %v", err, err)
		})
	}
}

func TestDirectory_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	d := NewDirectory()
	d.URL = url

	_, err := d.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, IsDiscoveryError(err))
}

func TestNewDirectory(t *testing.T) {
	d := NewDirectory()
	assert.Equal(t, DefaultDirectoryURL, d.URL)
	assert.Equal(t, DefaultDirectoryTimeout, d.HTTPClient.Timeout)
	assert.Equal(t, "directory", d.Name())
}
