package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aleister1102/stocknotifier/internal/datastore"
	"github.com/spf13/cobra"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage notification recipients",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME DISCORD_ID",
			Short: "Register a Discord user",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, opts, func(store *datastore.Store) error {
					u, err := store.AddUser(cmd.Context(), args[0], args[1])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added user %q (%s)\n", u.Name, u.DiscordID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove DISCORD_ID",
			Short: "Remove a user and all of their subscriptions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, opts, func(store *datastore.Store) error {
					if err := store.RemoveUser(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed user %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, opts, func(store *datastore.Store) error {
					users, err := store.ListUsers(cmd.Context())
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME\tDISCORD ID")
					for _, u := range users {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.DiscordID)
					}
					return tw.Flush()
				})
			},
		},
	)
	return cmd
}
