package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	app "equipment-logbook/internal"
	"equipment-logbook/internal/config"
	"equipment-logbook/internal/jwt"
	"equipment-logbook/internal/nonce"
	"equipment-logbook/internal/routes"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the logbook HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return ServerMain(ctx, cfg)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

func ServerMain(ctx context.Context, cfg *config.Config) error {
	initLogger(cfg)

	nonces, err := nonce.NewStore(nonce.NonceStoreType(cfg.NonceStore), provider, cfg.NonceJanitorInterval)
	if err != nil {
		return err
	}
	defer nonces.Close()

	issuer, err := jwt.NewIssuer(cfg.Secret, time.Duration(cfg.TokenTTL)*time.Second, nonces)
	if err != nil {
		return err
	}

	engine := app.HTTPServer(cfg, &routes.Server{
		Logbook:   svc,
		Admins:    admins,
		Issuer:    issuer,
		DB:        provider,
		Export:    cfg.Export,
		LabelSize: config.QR_IMAGE_SIZE,
		Login:     routes.NewIPRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
	})

	err = app.Serve(ctx, cfg.Listen, engine)
	slog.Info("Waiting for pending notifications")
	svc.Wait()
	return err
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
