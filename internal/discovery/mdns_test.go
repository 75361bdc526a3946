package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowse returns a browseFunc that delivers the given entries the way
// zeroconf does: blocking sends, then close once ctx is done.
func fakeBrowse(entries ...*zeroconf.ServiceEntry) browseFunc {
	return func(ctx context.Context, service, domain string, out chan<- *zeroconf.ServiceEntry) error {
		go func() {
			defer close(out)
			for _, e := range entries {
				out <- e
			}
			<-ctx.Done()
		}()
		return nil
	}
}

func bridgeEntry(v4, v6 string, txt ...string) *zeroconf.ServiceEntry {
	e := &zeroconf.ServiceEntry{
		HostName: "Philips-hue.local.",
		Port:     443,
		Text:     txt,
	}
	e.Instance = "Philips Hue - 1A2B3C"
	if v4 != "" {
		e.AddrIPv4 = []net.IP{net.ParseIP(v4)}
	}
	if v6 != "" {
		e.AddrIPv6 = []net.IP{net.ParseIP(v6)}
	}
	return e
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantOK   bool
		wantAddr string
		wantID   string
	}{
		{
			name:     "IPv4 bridge",
			entry:    bridgeEntry("192.168.1.20", "", "bridgeid=001788FFFE1A2B3C", "modelid=BSB002"),
			wantOK:   true,
			wantAddr: "192.168.1.20",
			wantID:   "001788fffe1a2b3c",
		},
		{
			name:     "IPv6 only",
			entry:    bridgeEntry("", "fe80::1"),
			wantOK:   true,
			wantAddr: "fe80::1",
		},
		{
			name:     "both families prefers IPv4",
			entry:    bridgeEntry("10.0.0.5", "fe80::2"),
			wantOK:   true,
			wantAddr: "10.0.0.5",
		},
		{
			name:   "no address",
			entry:  bridgeEntry("", ""),
			wantOK: false,
		},
		{
			name:   "nil entry",
			entry:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := parseServiceEntry(tt.entry)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantAddr, c.Address)
			assert.Equal(t, tt.wantID, c.ID)
			assert.Equal(t, SourceMDNS, c.Source)
			assert.Equal(t, 443, c.Port)
		})
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"bridgeid=abc", "flag", "modelid=BSB002", "x=a=b"})
	assert.Equal(t, map[string]string{
		"bridgeid": "abc",
		"flag":     "",
		"modelid":  "BSB002",
		"x":        "a=b",
	}, got)
}

func TestScanner_ReturnsOnFirstHit(t *testing.T) {
	scanner := NewScanner()
	scanner.Timeout = 5 * time.Second
	scanner.browse = fakeBrowse(
		bridgeEntry("", ""), // skipped, no address
		bridgeEntry("192.168.1.20", ""),
		bridgeEntry("192.168.1.21", ""),
	)

	start := time.Now()
	got, err := scanner.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "192.168.1.20", got[0].Address)
	assert.Less(t, time.Since(start), 2*time.Second, "scanner should not wait out the window")
}

func TestScanner_LateAdvertisementDoesNotBlockResolver(t *testing.T) {
	closed := make(chan struct{})
	scanner := NewScanner()
	scanner.Timeout = 5 * time.Second
	scanner.browse = func(ctx context.Context, service, domain string, out chan<- *zeroconf.ServiceEntry) error {
		go func() {
			defer close(closed)
			defer close(out)
			out <- bridgeEntry("192.168.1.20", "")
			time.Sleep(20 * time.Millisecond)
			out <- bridgeEntry("192.168.1.21", "")
			<-ctx.Done()
		}()
		return nil
	}

	got, err := scanner.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "192.168.1.20", got[0].Address)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("resolver still blocked on send after Discover returned")
	}
}

func TestScanner_EmptyWindow(t *testing.T) {
	scanner := NewScanner()
	scanner.Timeout = 50 * time.Millisecond
	scanner.browse = fakeBrowse(bridgeEntry("", ""))

	got, err := scanner.Discover(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanner_BrowseFailure(t *testing.T) {
	scanner := NewScanner()
	scanner.browse = func(ctx context.Context, service, domain string, out chan<- *zeroconf.ServiceEntry) error {
		return errors.New("bind: address already in use")
	}

	_, err := scanner.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, IsDiscoveryError(err))
	assert.False(t, IsNoCandidates(err))
}

func TestScanner_BrowsesHueService(t *testing.T) {
	var gotService, gotDomain string
	scanner := NewScanner()
	scanner.Timeout = 10 * time.Millisecond
	browse := fakeBrowse()
	scanner.browse = func(ctx context.Context, service, domain string, out chan<- *zeroconf.ServiceEntry) error {
		gotService, gotDomain = service, domain
		return browse(ctx, service, domain, out)
	}

	_, err := scanner.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "_hue._tcp", gotService)
	assert.Equal(t, "local.", gotDomain)
}

func TestScanner_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewScanner()
	scanner.browse = fakeBrowse()

	_, err := scanner.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	assert.Equal(t, DefaultScanTimeout, scanner.Timeout)
	assert.NotNil(t, scanner.browse)
	assert.Equal(t, "mdns", scanner.Name())
}
