package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Dashboard holds the initial session settings of the refresh loop
type Dashboard struct {
	Collection string
	Interval   int
	Live       bool
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "collection",
			Usage:       "Firestore collection holding score records",
			Category:    "Dashboard",
			Value:       types.DefaultCollection.String(),
			Sources:     cli.EnvVars("SCOREBOARD_COLLECTION"),
			Destination: &d.Collection,
		},
		&cli.IntFlag{
			Name:        "interval",
			Usage:       "Refresh interval in seconds (2-30)",
			Category:    "Dashboard",
			Value:       int(model.DefaultRefreshInterval / time.Second),
			Sources:     cli.EnvVars("SCOREBOARD_INTERVAL"),
			Destination: &d.Interval,
		},
		&cli.BoolFlag{
			Name:        "live",
			Usage:       "Start in live mode (use --live=false for a static snapshot)",
			Category:    "Dashboard",
			Value:       true,
			Sources:     cli.EnvVars("SCOREBOARD_LIVE"),
			Destination: &d.Live,
		},
	}
}

// Configure returns the validated initial settings
func (d *Dashboard) Configure() (model.Settings, error) {
	if d.Collection == "" {
		return model.Settings{}, goerr.New("collection name is required")
	}

	settings, err := model.NewSettings(d.Interval, d.Live)
	if err != nil {
		return model.Settings{}, goerr.Wrap(err, "invalid dashboard settings",
			goerr.V("interval", d.Interval),
			goerr.V("live", d.Live))
	}
	return settings, nil
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("collection", d.Collection),
		slog.Int("interval", d.Interval),
		slog.Bool("live", d.Live),
	)
}
