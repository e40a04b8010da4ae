package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"friendsearch/internal/config"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.NewConfigService(opts.configPath).Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend: %s (%s)\n", cfg.Backend.Mode, cfg.Backend.BaseURL)
			fmt.Fprintf(cmd.OutOrStdout(), "search: min_length=%d debounce=%s workers=%d\n",
				cfg.Search.MinLength, cfg.Search.Debounce.Std(), cfg.Search.Workers)
			fmt.Fprintf(cmd.OutOrStdout(), "log: %s (%s)\n", cfg.Log.File, cfg.Log.Level)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
