package interfaces

import (
	"context"

	"github.com/secmon-lab/scoreboard/pkg/domain/model"
)

// Dashboard is the refresh/render loop as seen by controllers
type Dashboard interface {
	// Refresh runs a single fetch/render cycle and returns the rendered frame
	Refresh(ctx context.Context) *model.Frame

	// Run executes cycles according to the current settings until ctx is cancelled
	Run(ctx context.Context) error

	// Settings returns the current session settings
	Settings() model.Settings

	// UpdateSettings validates and applies new settings, waking a pending wait
	UpdateSettings(settings model.Settings) error
}
