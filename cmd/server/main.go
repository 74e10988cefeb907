package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steamchat/steamchat-server/internal/app"
	"github.com/steamchat/steamchat-server/internal/config"
	"github.com/steamchat/steamchat-server/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  = config.Default()
	)

	cmd := &cobra.Command{
		Use:           "steamchat-server",
		Short:         "Room chat server with live fan-out and durable history",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootstrapLogger := log.New(overrides.LogLevel)

			cfg, path, err := config.Load(bootstrapLogger, configPath)
			if err != nil {
				return err
			}

			// Flags set explicitly on the command line win over the
			// config file and environment.
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = overrides.Addr
			}
			if flags.Changed("db") {
				cfg.DatabasePath = overrides.DatabasePath
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = overrides.LogLevel
			}
			if flags.Changed("durability") {
				cfg.Durability = overrides.Durability
			}
			if flags.Changed("heartbeat-interval") {
				cfg.HeartbeatInterval = overrides.HeartbeatInterval
			}
			if flags.Changed("write-timeout") {
				cfg.WriteTimeout = overrides.WriteTimeout
			}
			if flags.Changed("shutdown-timeout") {
				cfg.ShutdownTimeout = overrides.ShutdownTimeout
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting steamchat server")

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}

			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&overrides.Addr, "addr", overrides.Addr, "HTTP listen address")
	cmd.Flags().StringVar(&overrides.DatabasePath, "db", overrides.DatabasePath, "path to the SQLite database file")
	cmd.Flags().StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&overrides.Durability, "durability", overrides.Durability, "message durability mode (persist-first, broadcast-first)")
	cmd.Flags().DurationVar(&overrides.HeartbeatInterval, "heartbeat-interval", overrides.HeartbeatInterval, "keep-alive interval for persistent connections")
	cmd.Flags().DurationVar(&overrides.WriteTimeout, "write-timeout", overrides.WriteTimeout, "bound on persistence calls")
	cmd.Flags().DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", overrides.ShutdownTimeout, "graceful shutdown timeout")

	return cmd
}
