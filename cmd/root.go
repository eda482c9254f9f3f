package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"equipment-logbook/internal/access"
	"equipment-logbook/internal/config"
	"equipment-logbook/internal/email"
	"equipment-logbook/internal/logbook"
	"equipment-logbook/internal/storage"
)

var (
	cfgFile  string
	cfg      *config.Config
	provider storage.Provider
	admins   *access.Registry
	svc      *logbook.Service
)

var rootCmd = &cobra.Command{
	Use:   "equipment-logbook",
	Short: "Equipment lending logbook",
	Long:  `Track equipment requests, approvals and returns from the command line or over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		config.Cfg = cfg

		// The server installs its own JSON logger; CLI commands only report errors.
		if cmd.Name() != "server" {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			})))
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		provider, err = storage.NewProvider(ctx, &cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}

		admins, err = access.NewRegistry(provider, cfg.FallbackAdmin)
		if err != nil {
			return err
		}

		notifier := email.NewNotifier(cfg.Email, cfg.Notify.Recipients)
		svc = logbook.NewService(provider, admins, notifier, logbook.Options{
			Location:      cfg.Location(),
			NotifyTimeout: cfg.Notify.Timeout,
		})
		if _, err := svc.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to load logbook: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svc != nil {
			svc.Wait()
		}
		if provider != nil {
			provider.Close()
		}
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./instance/config.yaml)")
}
