package app

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/lojinha/config"
	"github.com/shashiranjanraj/lojinha/internal/server"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
)

// serveCmd boots the application and hands the kernel to internal/server,
// which owns the listen and graceful-shutdown lifecycle.
func (a *Application) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start", "run"},
		Short:   "Start the HTTP (REST + GraphQL) server and the optional gRPC listener",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if uri := config.LogMongoURI(); uri != "" {
				closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection())
				if err != nil {
					logger.Warn("mongo log sink disabled", "error", err)
				}
				defer closeLogs()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cleanup, err := a.runBoot(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return server.Run(ctx, a.Handler(), server.Options{
				HTTPPort: config.AppPort(),
				GRPCPort: config.GRPCPort(),
			})
		},
	}
}
