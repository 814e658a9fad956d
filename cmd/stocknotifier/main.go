// Package main is the entry point for the stocknotifier CLI.
//
// Usage:
//
//	stocknotifier run -c config.yaml           # Poll subscribed products until interrupted
//	stocknotifier run --once                   # Run a single check cycle
//	stocknotifier product add --name gpu --url https://shop.example/gpu --indicator "In stock"
//	stocknotifier user add alex 123456789012345678
//	stocknotifier subscribe 123456789012345678 gpu
//	stocknotifier validate -c config.yaml      # Validate configuration
package main

import (
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "stocknotifier",
		Short: "Watch shop pages and notify subscribers when products are in stock",
		Long: `stocknotifier polls product pages for an in-stock indicator and pings
the product's subscribers on Discord when the indicator shows up.

Requests to the same shop are spaced out and slowed down outside of
active hours to stay polite.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to YAML/JSON config file (default: $"+envConfigPathHint+", ./config.yaml)")

	root.AddCommand(
		newRunCmd(opts),
		newValidateCmd(opts),
		newProductCmd(opts),
		newUserCmd(opts),
		newSubscribeCmd(opts),
		newUnsubscribeCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stocknotifier %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
