// Rue pairs this computer with a Philips Hue bridge.
//
// It finds bridges on the local network (mDNS first, then the remote lookup
// service), asks each of them for a credential until the user presses the
// link button on one, and stores the credential for later use.
//
// Usage:
//
//	rue [command] [flags]
//
// Running without arguments starts pairing.
// See 'rue --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/rue/internal/config"
	"github.com/muurk/rue/internal/logging"
	"github.com/muurk/rue/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "rue",
	Short: "Pair with a Philips Hue bridge",
	Long: `Rue discovers Hue bridges on the local network and pairs with one.

Pairing keeps asking every bridge found for a credential for about two
minutes. Press the link button on the bridge you want while it runs. The
credential is saved to ~/.config/rue/rue.json.

If no command is specified, pairing starts automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless --log-level or RUE_LOG_LEVEL is set
		return logging.Initialize(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPair(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: platform config dir)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rue %s\n", version.Full())
	},
}

// reportedError marks an error whose explanation has already been printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// settingsPath resolves --config to a file path
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// loadSettings reads the settings file, falling back to defaults
func loadSettings() (*config.Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}
