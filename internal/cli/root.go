// Package cli wires configuration, logging, the lookup backend and the
// search coordinator into the friendsearch commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"friendsearch/internal/config"
	"friendsearch/internal/eventbus"
)

type rootOptions struct {
	configPath string
	backend    string
	baseURL    string
}

// NewRootCommand builds the friendsearch command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "friendsearch",
		Short:         "Find a user by name and send them a friend request",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "Path to the TOML config file")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "Backend mode: mock or http (overrides config)")
	root.PersistentFlags().StringVar(&opts.baseURL, "url", "", "Backend base URL for the http mode (overrides config)")

	root.AddCommand(
		newTUICommand(opts),
		newServeCommand(opts),
		newFindCommand(opts),
		newAddCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies flag overrides.
// With a non-nil bus the load is announced as a ConfigLoadedEvent.
func loadConfig(opts *rootOptions, bus eventbus.EventBus) (*config.Config, error) {
	svc := config.NewConfigService(opts.configPath)
	if bus != nil {
		svc = config.NewConfigServiceWithBus(opts.configPath, bus)
	}
	cfg, err := svc.Load()
	if err != nil {
		return nil, err
	}

	if opts.backend != "" {
		cfg.Backend.Mode = opts.backend
	}
	if opts.baseURL != "" {
		cfg.Backend.BaseURL = opts.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
