package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/muurk/rue/internal/bridge"
	"github.com/muurk/rue/internal/discovery"
	"github.com/muurk/rue/internal/pairing"
)

const (
	appName    = "rue"
	configFile = "config.yaml"

	// CurrentVersion is the settings file format version
	CurrentVersion = 1
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// Settings is the user configuration file.
type Settings struct {
	Version   int               `yaml:"version" validate:"eq=1"`
	Discovery DiscoverySettings `yaml:"discovery"`
	Pairing   PairingSettings   `yaml:"pairing"`
}

// DiscoverySettings controls how bridges are located.
type DiscoverySettings struct {
	Method           string        `yaml:"method" validate:"oneof=auto mdns directory"` // auto tries mdns, then directory
	MDNSTimeout      time.Duration `yaml:"mdns_timeout" validate:"gt=0"`
	DirectoryURL     string        `yaml:"directory_url" validate:"required,url"`
	DirectoryTimeout time.Duration `yaml:"directory_timeout" validate:"gt=0"`
}

// PairingSettings controls the polling loop.
type PairingSettings struct {
	DeviceType     string        `yaml:"device_type" validate:"required,max=40"`
	MaxRounds      int           `yaml:"max_rounds" validate:"min=1,max=1000"`
	RoundDelay     time.Duration `yaml:"round_delay" validate:"gt=0"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" validate:"gt=0"`
}

// Default returns settings with the built-in values.
func Default() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Discovery: DiscoverySettings{
			Method:           discovery.MethodAuto,
			MDNSTimeout:      discovery.DefaultScanTimeout,
			DirectoryURL:     discovery.DefaultDirectoryURL,
			DirectoryTimeout: discovery.DefaultDirectoryTimeout,
		},
		Pairing: PairingSettings{
			DeviceType:     bridge.DefaultDeviceType,
			MaxRounds:      pairing.DefaultMaxRounds,
			RoundDelay:     pairing.DefaultRoundDelay,
			AttemptTimeout: bridge.DefaultTimeout,
		},
	}
}

// Validate checks every field against its constraints.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid setting %s: failed %q constraint (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// PairingConfig converts the pairing section into coordinator parameters.
func (s *Settings) PairingConfig() pairing.Config {
	return pairing.Config{
		MaxRounds:  s.Pairing.MaxRounds,
		RoundDelay: s.Pairing.RoundDelay,
	}
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/rue or $HOME/.config/rue
//   - macOS: $HOME/.config/rue
//   - Windows: %LOCALAPPDATA%\rue
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the settings file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads settings from path. A missing file yields Default(). Keys
// absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", settings.Version, CurrentVersion)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to path atomically.
func (s *Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# rue configuration file
#
# discovery.method: auto (mDNS, then the lookup service), mdns or directory
# pairing.max_rounds x pairing.round_delay is how long pairing waits for
# the link button.
#
# The pairing credential is stored separately and never written here.

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
