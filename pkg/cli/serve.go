package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/cli/config"
	controller "github.com/secmon-lab/scoreboard/pkg/controller/http"
	"github.com/secmon-lab/scoreboard/pkg/service/chart"
	"github.com/secmon-lab/scoreboard/pkg/usecase"
	"github.com/secmon-lab/scoreboard/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		dashboardCfg config.Dashboard
		firestoreCfg config.Firestore
		paletteCfg   config.Palette
	)

	flags := joinFlags(
		serverCfg.Flags(),
		dashboardCfg.Flags(),
		firestoreCfg.Flags(),
		paletteCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server and the refresh loop",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting scoreboard server",
				slog.Any("server", serverCfg),
				slog.Any("dashboard", dashboardCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("palette", paletteCfg),
			)

			settings, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}

			palette, err := paletteCfg.Configure()
			if err != nil {
				return err
			}

			source, err := firestoreCfg.Configure(ctx, dashboardCfg.Collection)
			if err != nil {
				return err
			}
			defer source.Close()

			store := controller.NewFrameStore(chart.New(palette))
			dashboard := usecase.NewDashboard(source, store,
				usecase.WithCollection(dashboardCfg.Collection),
				usecase.WithSettings(settings),
			)

			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				dashboardCfg.Collection,
				dashboard,
				store,
				palette,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			loopCtx, stopLoop := context.WithCancel(ctx)
			defer stopLoop()
			loopDone := async.Go(loopCtx, "refresh-loop", dashboard.Run)

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			var loopErr error
			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case loopErr = <-loopDone:
				logger.Error("Refresh loop stopped unexpectedly", slog.Any("error", loopErr))
			}

			stopLoop()

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			if loopErr != nil {
				return goerr.Wrap(loopErr, "refresh loop failed")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
