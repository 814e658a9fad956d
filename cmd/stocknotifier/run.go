package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/stocknotifier/internal/httpclient"
	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/aleister1102/stocknotifier/internal/monitor"
	"github.com/aleister1102/stocknotifier/internal/notifier"
	"github.com/aleister1102/stocknotifier/internal/rslimiter"
	"github.com/spf13/cobra"
)

const retryBaseDelay = time.Second

func newRunCmd(opts *rootOptions) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start polling subscribed products",
		Long: `Start the poller.

Every cycle reads the subscribed products, checks each shop's products one
after another and the shops in parallel, then sleeps. The pause is the
configured cycle interval inside active hours and twice that outside, with
random jitter either way.

The poller runs until interrupted (Ctrl+C) or it receives SIGTERM. Checks in
flight finish before it exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoller(cmd, opts, once)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	return cmd
}

func runPoller(cmd *cobra.Command, opts *rootOptions, once bool) error {
	a, err := loadApp(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg := a.cfg
	log := a.logger

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fetcher, err := httpclient.NewHTTPClientBuilder(log).
		WithConfig(httpclient.FromAppConfig(cfg.HTTPClientConfig, cfg.PollerConfig)).
		WithRetry(cfg.PollerConfig.MaxRetries, retryBaseDelay).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	discordNotifier, err := notifier.NewDiscordNotifier(cfg.NotificationConfig, nil, log)
	if err != nil {
		return err
	}
	subscriberNotifier := notifier.NewSubscriberNotifier(
		discordNotifier,
		store,
		cfg.NotificationConfig.RemoveOnMatch,
		cfg.NotificationConfig.Username,
		log,
	)

	worker := monitor.NewHostWorker(fetcher, monitor.NewMatcher(0), subscriberNotifier, cfg.PollerConfig.SameHostDelay(), log)
	// Room for one rate-limited webhook retry.
	worker.SetNotifyTimeout(2 * time.Duration(cfg.NotificationConfig.TimeoutSecs) * time.Second)

	scheduler, err := monitor.NewScheduler(cfg.PollerConfig, store, worker, log)
	if err != nil {
		return err
	}

	if cfg.ResourceLimiterConfig.Enabled {
		limiter := rslimiter.NewResourceLimiter(rslimiter.FromAppConfig(cfg.ResourceLimiterConfig), log)
		limiter.SetShutdownCallback(cancel)
		limiter.Start(ctx)
		defer limiter.Stop()
		scheduler.SetUsageReporter(limiter)
	}

	if once {
		stats := scheduler.RunCycle(ctx)
		printCycleSummary(cmd, stats)
		return stats.Err
	}

	log.Info().Str("db_path", cfg.StorageConfig.SQLiteDBPath).Bool("webhook_enabled", discordNotifier.Enabled()).Msg("Starting stock poller")
	if err := scheduler.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("Shutdown complete")
	return nil
}

func printCycleSummary(cmd *cobra.Command, stats *models.CycleStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cycle %s: %d hosts, %d checked, %d matched, %d not matched, %d failed in %s\n",
		stats.CycleID,
		stats.Hosts,
		len(stats.Outcomes),
		stats.Count(models.OutcomeMatched),
		stats.Count(models.OutcomeNoMatch),
		stats.Count(models.OutcomeFailed),
		stats.Elapsed().Round(time.Millisecond),
	)
	for _, o := range stats.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "  %s: %s (%v)\n", o.Item.Name, o.Outcome, o.Err)
		} else {
			fmt.Fprintf(out, "  %s: %s\n", o.Item.Name, o.Outcome)
		}
	}
}
