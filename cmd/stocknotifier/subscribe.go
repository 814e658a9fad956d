package main

import (
	"fmt"

	"github.com/aleister1102/stocknotifier/internal/datastore"
	"github.com/spf13/cobra"
)

func newSubscribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe DISCORD_ID PRODUCT",
		Short: "Subscribe a user to a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *datastore.Store) error {
				added, err := store.Subscribe(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already subscribed to %q\n", args[0], args[1])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Subscribed %s to %q\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newUnsubscribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe DISCORD_ID PRODUCT",
		Short: "Unsubscribe a user from a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *datastore.Store) error {
				if err := store.Unsubscribe(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unsubscribed %s from %q\n", args[0], args[1])
				return nil
			})
		},
	}
}
