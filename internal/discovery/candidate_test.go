package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidate_String(t *testing.T) {
	c := Candidate{Address: "192.168.1.20", ID: "001788fffe1a2b3c", Source: SourceMDNS}
	assert.Equal(t, "Bridge 001788fffe1a2b3c at 192.168.1.20 (mdns)", c.String())

	anon := Candidate{Address: "10.0.0.5", Source: SourceManual}
	assert.Equal(t, "Bridge at 10.0.0.5 (manual)", anon.String())
}

func TestURLHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.1.20", "192.168.1.20"},
		{"127.0.0.1:8080", "127.0.0.1:8080"},
		{"fe80::1", "[fe80::1]"},
		{"[fe80::1]:80", "[fe80::1]:80"},
		{"bridge.local", "bridge.local"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, URLHost(tt.in))
		})
	}
}

func TestManual(t *testing.T) {
	got := Manual("10.0.0.5", "", "10.0.0.6")
	assert.Equal(t, []string{"10.0.0.5", "10.0.0.6"}, Addresses(got))
	for _, c := range got {
		assert.Equal(t, SourceManual, c.Source)
	}
}
