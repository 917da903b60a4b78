package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/cli/config"
	controller "github.com/secmon-lab/scoreboard/pkg/controller/http"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/service/chart"
	"github.com/secmon-lab/scoreboard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRender() *cli.Command {
	var (
		dashboardCfg config.Dashboard
		firestoreCfg config.Firestore
		paletteCfg   config.Palette
		outDir       string
		format       string
	)

	flags := joinFlags(
		dashboardCfg.Flags(),
		firestoreCfg.Flags(),
		paletteCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Directory to write frame.json and chart images to",
				Value:       ".",
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Chart image format (png, svg)",
				Value:       string(chart.FormatPNG),
				Destination: &format,
			},
		},
	)

	return &cli.Command{
		Name:  "render",
		Usage: "Run one static refresh cycle and write the frame and charts to files",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			imgFormat, err := chart.ParseFormat(format)
			if err != nil {
				return err
			}

			settings, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}
			settings.Live = false

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

			frame := dashboard.Refresh(ctx)
			if err := writeFrame(outDir, frame); err != nil {
				return err
			}

			written := 0
			if !frame.IsEmpty() {
				for _, view := range model.ViewNames {
					img, err := store.Chart(view, imgFormat)
					if goerr.HasTag(err, chart.ErrTagNoData) {
						// e.g. shares when no subject has a positive sum
						logger.Warn("Chart skipped, nothing to draw",
							slog.String("view", string(view)),
							slog.Any("error", err),
						)
						continue
					}
					if err != nil {
						return goerr.Wrap(err, "failed to render chart", goerr.V("view", view))
					}
					path := filepath.Join(outDir, string(view)+"."+string(imgFormat))
					if err := os.WriteFile(path, img, 0644); err != nil {
						return goerr.Wrap(err, "failed to write chart", goerr.V("path", path))
					}
					written++
				}
			}

			logger.Info("Frame rendered",
				slog.String("output", outDir),
				slog.String("state", string(frame.State)),
				slog.Int("charts", written),
				slog.Int("rejected", len(frame.Rejected)),
			)

			if frame.Error != "" {
				return goerr.New(frame.Error, goerr.T(model.ErrTagDataSource))
			}
			return nil
		},
	}
}

func writeFrame(dir string, frame *model.Frame) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}

	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode frame")
	}

	path := filepath.Join(dir, "frame.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write frame", goerr.V("path", path))
	}
	return nil
}
