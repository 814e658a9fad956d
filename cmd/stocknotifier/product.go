package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aleister1102/stocknotifier/internal/datastore"
	"github.com/spf13/cobra"
)

func newProductCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage monitored products",
	}
	cmd.AddCommand(
		newProductAddCmd(opts),
		newProductRemoveCmd(opts),
		newProductListCmd(opts),
		newProductSubscribersCmd(opts),
	)
	return cmd
}

func newProductAddCmd(opts *rootOptions) *cobra.Command {
	var np datastore.NewProduct

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product page to monitor",
		Long: `Add a product page to monitor.

The indicator is literal text by default. With --regex it is a regular
expression in which "." also matches line breaks.`,
		Example: `  stocknotifier product add --name gpu --url https://shop.example/gpu --indicator "Add to cart"
  stocknotifier product add --name psu --url shop.example/psu --indicator 'stock">\s*[1-9]' --regex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *datastore.Store) error {
				p, err := store.AddProduct(cmd.Context(), np)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added product #%d %q (%s)\n", p.ID, p.Name, p.URL)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&np.Name, "name", "", "unique product name (required)")
	cmd.Flags().StringVar(&np.URL, "url", "", "product page URL (required)")
	cmd.Flags().StringVar(&np.Indicator, "indicator", "", "text that appears on the page when in stock (required)")
	cmd.Flags().BoolVar(&np.IsRegex, "regex", false, "treat the indicator as a regular expression")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("indicator")
	return cmd
}

func newProductRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Stop monitoring a product and drop its subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *datastore.Store) error {
				if err := store.RemoveProduct(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed product %q\n", args[0])
				return nil
			})
		},
	}
}

func newProductListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List monitored products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *datastore.Store) error {
				products, err := store.ListProducts(cmd.Context())
				if err != nil {
					return err
				}
				if len(products) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No products")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tURL\tINDICATOR\tREGEX")
				for _, p := range products {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", p.ID, p.Name, p.URL, p.Indicator, p.IsRegex)
				}
				return tw.Flush()
			})
		},
	}
}

func newProductSubscribersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribers NAME",
		Short: "List the users subscribed to a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *datastore.Store) error {
				users, err := store.SubscribersOf(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, u := range users {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.DiscordID, u.Name)
				}
				return nil
			})
		},
	}
}

// withStore loads configuration, opens the database and runs fn against it.
func withStore(cmd *cobra.Command, opts *rootOptions, fn func(store *datastore.Store) error) error {
	a, err := loadApp(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}
