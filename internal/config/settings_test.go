package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is Linux-specific")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "rue"), dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/alex")
	dir, err = GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/alex", ".config", "rue"), dir)
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Equal(t, "auto", s.Discovery.Method)
	assert.Equal(t, 3*time.Second, s.Discovery.MDNSTimeout)
	assert.Equal(t, "https://discovery.meethue.com/", s.Discovery.DirectoryURL)
	assert.Equal(t, "rue_pc_app", s.Pairing.DeviceType)
	assert.Equal(t, 24, s.Pairing.MaxRounds)
	assert.Equal(t, 5*time.Second, s.Pairing.RoundDelay)

	cfg := s.PairingConfig()
	assert.Equal(t, 24, cfg.MaxRounds)
	assert.Equal(t, 5*time.Second, cfg.RoundDelay)
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\npairing:\n  max_rounds: 36\n  round_delay: 2s\n"), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 36, s.Pairing.MaxRounds)
	assert.Equal(t, 2*time.Second, s.Pairing.RoundDelay)
	assert.Equal(t, "rue_pc_app", s.Pairing.DeviceType)
	assert.Equal(t, "auto", s.Discovery.Method)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "version: [1"},
		{"wrong version", "version: 2\n"},
		{"unknown method", "version: 1\ndiscovery:\n  method: bluetooth\n"},
		{"zero rounds", "version: 1\npairing:\n  max_rounds: 0\n"},
		{"negative delay", "version: 1\npairing:\n  round_delay: -1s\n"},
		{"bad url", "version: 1\ndiscovery:\n  directory_url: not a url\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := Default()
	s.Discovery.Method = "directory"
	s.Pairing.AttemptTimeout = 2 * time.Second
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# rue configuration file")
	assert.Contains(t, string(data), "round_delay: 5s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSave_RejectsInvalid(t *testing.T) {
	s := Default()
	s.Pairing.MaxRounds = 0
	assert.Error(t, s.Save(filepath.Join(t.TempDir(), "config.yaml")))
}
