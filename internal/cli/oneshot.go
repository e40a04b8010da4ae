package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"friendsearch/internal/domain"
	"friendsearch/internal/logging"
	"friendsearch/internal/lookup"
)

func newFindCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <name>",
		Short: "Look up a user by name once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := oneShotService(opts)
			if err != nil {
				return err
			}

			result, err := svc.FindUser(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("find user: %w", err)
			}
			if !result.IsFound() {
				fmt.Fprintf(cmd.OutOrStdout(), "not found: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "found: %s\n", result.User)
			return nil
		},
	}
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Send a friend request to a user once",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := oneShotService(opts)
			if err != nil {
				return err
			}

			result, err := svc.AddFriend(cmd.Context(), domain.User{ID: args[0], Name: args[1]})
			if err != nil {
				return fmt.Errorf("add friend: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message())
			return nil
		},
	}
}

func oneShotService(opts *rootOptions) (lookup.Service, error) {
	cfg, err := loadConfig(opts, nil)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, "friendsearch", zerolog.WarnLevel)
	return lookup.FromConfig(cfg.Backend, logger)
}
