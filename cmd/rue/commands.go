package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/rue/internal/bridge"
	"github.com/muurk/rue/internal/config"
	"github.com/muurk/rue/internal/credential"
	"github.com/muurk/rue/internal/discovery"
	"github.com/muurk/rue/internal/pairing"
	"github.com/muurk/rue/internal/ui"
)

// Command flags
var (
	method       string
	bridgeAddrs  []string
	maxRounds    int
	roundDelay   time.Duration
	timeout      time.Duration
	plainOutput  bool
	saveUsername string
	saveBridge   string
	jsonOutput   bool
	forceInit    bool
)

func init() {
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// addPairFlags registers the pairing flags on cmd. The root command gets
// them too so a bare 'rue --bridge 10.0.0.5' works.
func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&method, "method", "", "Discovery method: auto, mdns or directory (default from settings)")
	cmd.Flags().StringSliceVar(&bridgeAddrs, "bridge", nil, "Bridge address to pair with (skips discovery, repeatable)")
	cmd.Flags().IntVar(&maxRounds, "rounds", 0, "Number of pairing rounds (default from settings)")
	cmd.Flags().DurationVar(&roundDelay, "delay", 0, "Wait between rounds (default from settings)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default from settings)")
	cmd.Flags().BoolVar(&plainOutput, "plain", false, "Plain line output instead of the interactive screen")
}

func init() {
	addPairFlags(rootCmd)
	addPairFlags(pairCmd)
}

// pairCmd runs discovery and the pairing rounds
var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair with a bridge",
	Long: `Find bridges and ask each of them for a credential until one accepts.

Every round sends one request to every bridge found. A bridge answers with
a credential only after its link button has been pressed, so press the
button on the bridge you want while pairing runs. The first bridge to
answer wins and its credential is saved.`,
	Example: `  # Discover bridges and pair
  rue pair

  # Pair with a known bridge, skipping discovery
  rue pair --bridge 192.168.1.20

  # Only use the remote lookup service, wait up to 3 minutes
  rue pair --method directory --rounds 36

  # Line output for scripts and logs
  rue pair --plain`,
	Args: cobra.NoArgs,
	RunE: runPair,
}

func runPair(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyPairFlags(cmd, settings)
	if err := settings.Validate(); err != nil {
		return err
	}

	store, err := credential.NewDefaultStore()
	if err != nil {
		return err
	}

	client := newBridgeClient(settings)
	provider, err := newProvider(settings)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	pair := func(ctx context.Context, obs pairing.Observer) (*credential.Credential, error) {
		coordinator, err := pairing.New(settings.PairingConfig(), client, store,
			pairing.WithProvider(provider),
			pairing.WithObserver(obs),
		)
		if err != nil {
			return nil, err
		}
		if len(bridgeAddrs) > 0 {
			return coordinator.Poll(ctx, discovery.Manual(bridgeAddrs...))
		}
		return coordinator.Run(ctx)
	}

	if plainOutput || !ui.IsTerminal() {
		return pairPlain(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), store, pair)
	}

	cred, err := ui.RunPairing(ctx, settings.Pairing.MaxRounds, pair)
	if err != nil {
		// The screen has already shown the failure
		return &reportedError{err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Paired with %s\nCredential saved to %s\n", cred.BridgeAddress, store.Path())
	return nil
}

func pairPlain(ctx context.Context, out, errOut io.Writer, store *credential.Store, pair ui.PairFunc) error {
	if len(bridgeAddrs) == 0 {
		fmt.Fprintln(out, "Looking for bridges...")
	}

	cred, err := pair(ctx, ui.NewTextObserver(out))
	if err != nil {
		fmt.Fprintln(errOut, ui.DescribeError(err))
		return &reportedError{err: err}
	}

	fmt.Fprintf(out, "Username: %s\n", credential.Redact(cred.Username))
	fmt.Fprintf(out, "Credential saved to %s\n", store.Path())
	return nil
}

// applyPairFlags overrides settings with the flags set on the command line
func applyPairFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("method") {
		s.Discovery.Method = strings.ToLower(method)
	}
	if flags.Changed("rounds") {
		s.Pairing.MaxRounds = maxRounds
	}
	if flags.Changed("delay") {
		s.Pairing.RoundDelay = roundDelay
	}
	if flags.Changed("timeout") {
		s.Pairing.AttemptTimeout = timeout
	}
}

func newBridgeClient(s *config.Settings) *bridge.Client {
	client := bridge.NewClient()
	client.DeviceType = s.Pairing.DeviceType
	client.SetTimeout(s.Pairing.AttemptTimeout)
	return client
}

func newProvider(s *config.Settings) (discovery.Provider, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = s.Discovery.MDNSTimeout

	directory := discovery.NewDirectory()
	directory.URL = s.Discovery.DirectoryURL
	directory.HTTPClient.Timeout = s.Discovery.DirectoryTimeout

	return discovery.ParseMethod(s.Discovery.Method, scanner, directory)
}

// discoverCmd lists bridges without pairing
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List bridges on the network",
	Long: `Run discovery and print every bridge found, without pairing.

The auto method listens for mDNS advertisements and asks the remote lookup
service only when nothing answers locally.`,
	Example: `  # Discover with the configured method
  rue discover

  # Only listen for mDNS advertisements
  rue discover --method mdns`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&method, "method", "", "Discovery method: auto, mdns or directory (default from settings)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("method") {
		settings.Discovery.Method = strings.ToLower(method)
	}

	provider, err := newProvider(settings)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Looking for bridges (%s)...\n\n", provider.Name())

	candidates, err := provider.Discover(ctx)
	if err == nil && len(candidates) == 0 {
		err = &discovery.NoCandidatesError{Method: provider.Name()}
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.DescribeError(err))
		return &reportedError{err: err}
	}

	fmt.Fprintf(out, "Found %d bridge(s):\n\n", len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(out, "%d. %s\n", i+1, c.Address)
		if c.ID != "" {
			fmt.Fprintf(out, "   ID:     %s\n", c.ID)
		}
		fmt.Fprintf(out, "   Source: %s\n\n", c.Source)
	}
	fmt.Fprintln(out, "Use 'rue pair --bridge <address>' to pair with one of them")
	return nil
}

// saveCmd stores a credential obtained elsewhere
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store a credential you already have",
	Long: `Write a username and bridge address to the credential file without pairing.

Useful when the username was created by another tool or on another machine.`,
	Example: `  rue save --username 1028d66426293e821ecfd9ef1a0731df --bridge 192.168.1.20`,
	Args:    cobra.NoArgs,
	RunE:    runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveUsername, "username", "", "Username issued by the bridge")
	saveCmd.Flags().StringVar(&saveBridge, "bridge", "", "Address of the bridge that issued it")
	_ = saveCmd.MarkFlagRequired("username")
	_ = saveCmd.MarkFlagRequired("bridge")
}

func runSave(cmd *cobra.Command, args []string) error {
	store, err := credential.NewDefaultStore()
	if err != nil {
		return err
	}

	cred := &credential.Credential{Username: saveUsername, BridgeAddress: saveBridge}
	if err := store.Save(cred); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", cred, store.Path())
	return nil
}

// loadCmd prints the stored credential
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Show the stored credential",
	Long: `Print the stored credential.

The username is shortened in the default output. Use --json for the full
value, e.g. to feed another program.`,
	Example: `  rue load
  rue load --json | jq -r .username`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the credential as JSON, username in full")
}

func runLoad(cmd *cobra.Command, args []string) error {
	store, err := credential.NewDefaultStore()
	if err != nil {
		return err
	}

	cred, err := store.Load()
	if errors.Is(err, credential.ErrNotPaired) {
		return fmt.Errorf("not paired yet, run 'rue pair' first")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cred)
	}

	fmt.Fprintf(out, "Bridge:   %s\n", cred.BridgeAddress)
	fmt.Fprintf(out, "Username: %s\n", credential.Redact(cred.Username))
	fmt.Fprintf(out, "File:     %s\n", store.Path())
	return nil
}

// forgetCmd deletes the stored credential
var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Delete the stored credential",
	Long: `Delete the credential file. The bridge keeps its whitelist entry; remove
it from the Hue app if you no longer want this computer to have access.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credential.NewDefaultStore()
		if err != nil {
			return err
		}
		if err := store.Delete(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", store.Path())
		return nil
	},
}

// configCmd groups settings file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
