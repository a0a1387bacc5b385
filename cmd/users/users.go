// Package users implements account maintenance commands.
package users

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// Command creates the users command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(listCommand(), deleteCommand())
	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore(store)

			accounts, err := store.Users().List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := range accounts {
				_, _ = fmt.Fprintf(out, "%d\t%s\t%s\n",
					accounts[i].ID, accounts[i].Email, accounts[i].CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func deleteCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account that owns no items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore(store)

			user, err := store.Users().GetByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if err := store.Users().Delete(cmd.Context(), user.ID); err != nil {
				if errors.IsConflict(err) {
					return fmt.Errorf("account %s still owns closet items; delete them first", email)
				}
				return err
			}

			logger.Global().Module("users").Info("account deleted",
				logger.Uint("user_id", user.ID))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email of the account to delete")
	return cmd
}

func openStore(cmd *cobra.Command) (*datastore.Store, error) {
	store, err := datastore.Open(cmd.Context(), conf.GetSettings().Database, nil)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return store, nil
}

func closeStore(store *datastore.Store) {
	if err := store.Close(); err != nil {
		logger.Global().Module("users").Warn("failed to close database", logger.Error(err))
	}
}
