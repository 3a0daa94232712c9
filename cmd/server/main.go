package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gardencare/config"
	"gardencare/pkg/featureflag"
	"gardencare/pkg/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gardencare",
		Short:        "Garden care rule engine: care tasks and diagnostics for home gardens",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), evaluateCmd(), flagsCmd())
	return root
}

// setup loads config and logging, then builds the app. The caller must Sync the logger.
func setup(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			time.Local = loc
		} else {
			log.Printf("[cfg] unknown TZ %q: %v", cfg.Timezone, err)
		}
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a, err := newApp(ctx, cfg, logger, nil)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			e := a.echo()
			errc := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("port", a.cfg.Port))
				errc <- e.Start(":" + a.cfg.Port)
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.log.Info("shutting down")
			return e.Shutdown(shutdown)
		},
	}
}

func evaluateCmd() *cobra.Command {
	var gardenID uint
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Print the insight report for one garden as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if gardenID == 0 {
				return errors.New("--garden is required")
			}
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			rep, err := a.insight.Evaluate(cmd.Context(), gardenID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
	cmd.Flags().UintVar(&gardenID, "garden", 0, "garden id to evaluate")
	return cmd
}

func flagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Inspect or toggle engine feature flags",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "Show every flag and whether it is on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()
			snap := a.gate.Snapshot()
			for _, name := range featureflag.Names(snap) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %t\n", name, snap[name])
			}
			return nil
		},
	}
	toggle := func(use string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:       use + " <flag>",
			Short:     use + " a flag",
			Args:      cobra.ExactArgs(1),
			ValidArgs: featureflag.Known,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := setup(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = a.log.Sync() }()
				if err := a.gate.Set(cmd.Context(), args[0], enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %t\n", args[0], enabled)
				return nil
			},
		}
	}
	cmd.AddCommand(list, toggle("enable", true), toggle("disable", false))
	return cmd
}
