package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Load the configuration, apply defaults and report any invalid values.

Exits with status 0 if the configuration is valid, 1 otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			p := a.cfg.PollerConfig
			w := p.ActiveHoursWindow
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration is valid")
			fmt.Fprintf(out, "  cycle:          %s ± %s\n", p.GlobalCycle(), p.GlobalJitter())
			fmt.Fprintf(out, "  same host:      %s\n", p.SameHostDelay())
			fmt.Fprintf(out, "  max hosts:      %d\n", p.MaxConcurrentHosts)
			fmt.Fprintf(out, "  active hours:   %02d:00-%02d:00 %s\n", w.StartHour, w.EndHour, w.Timezone)
			fmt.Fprintf(out, "  database:       %s\n", a.cfg.StorageConfig.SQLiteDBPath)
			fmt.Fprintf(out, "  webhook:        %t\n", a.cfg.NotificationConfig.DiscordWebhookURL != "")
			return nil
		},
	}
}
