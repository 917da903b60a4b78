package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
	"github.com/secmon-lab/scoreboard/pkg/utils/apperr"
)

// DashboardConfig holds configuration for Dashboard use case
type DashboardConfig struct {
	collection string
	settings   model.Settings
	now        func() time.Time
	after      func(time.Duration) <-chan time.Time
}

// DashboardOption is a functional option for configuring Dashboard
type DashboardOption func(*DashboardConfig)

// WithCollection sets the collection to poll
func WithCollection(name string) DashboardOption {
	return func(c *DashboardConfig) {
		c.collection = name
	}
}

// WithSettings sets the initial session settings
func WithSettings(settings model.Settings) DashboardOption {
	return func(c *DashboardConfig) {
		c.settings = settings
	}
}

// WithClock replaces the clock used to timestamp frames
func WithClock(now func() time.Time) DashboardOption {
	return func(c *DashboardConfig) {
		c.now = now
	}
}

// WithTimer replaces the timer used for the wait between live cycles
func WithTimer(after func(time.Duration) <-chan time.Time) DashboardOption {
	return func(c *DashboardConfig) {
		c.after = after
	}
}

// Dashboard implements the refresh/render loop
type Dashboard struct {
	source     interfaces.ScoreSource
	renderer   interfaces.Renderer
	collection string
	now        func() time.Time
	after      func(time.Duration) <-chan time.Time

	mu       sync.RWMutex
	settings model.Settings

	// wake interrupts the wait between cycles when settings change
	wake    chan struct{}
	running atomic.Bool
}

// NewDashboard creates a new Dashboard. Invalid initial settings fall back to defaults.
func NewDashboard(source interfaces.ScoreSource, renderer interfaces.Renderer, opts ...DashboardOption) *Dashboard {
	cfg := &DashboardConfig{
		collection: types.DefaultCollection.String(),
		settings:   model.DefaultSettings(),
		now:        time.Now,
		after:      time.After,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.settings.Validate() != nil {
		cfg.settings = model.DefaultSettings()
	}

	return &Dashboard{
		source:     source,
		renderer:   renderer,
		collection: cfg.collection,
		now:        cfg.now,
		after:      cfg.after,
		settings:   cfg.settings,
		wake:       make(chan struct{}, 1),
	}
}

// Settings returns the current session settings
func (d *Dashboard) Settings() model.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// UpdateSettings validates and applies settings. A running loop stops waiting and starts
// a fresh cycle with the new settings.
func (d *Dashboard) UpdateSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	d.settings = settings
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
		// a wake-up is already pending
	}
	return nil
}

// Refresh runs one fetch/render cycle with the current settings
func (d *Dashboard) Refresh(ctx context.Context) *model.Frame {
	return d.refresh(ctx, d.Settings())
}

func (d *Dashboard) refresh(ctx context.Context, settings model.Settings) *model.Frame {
	logger := ctxlog.From(ctx)

	var fetchErr error
	docs, err := d.source.FetchCollection(ctx, d.collection)
	if err != nil {
		fetchErr = err
		docs = nil
		logger.Warn("Failed to fetch score records",
			"error", err,
			"collection", d.collection,
			"dataSource", goerr.HasTag(err, model.ErrTagDataSource),
		)
	}

	snapshot, rejected := model.NewSnapshot(docs)
	for _, r := range rejected {
		logger.Warn("Skipped malformed record", "error", r.Err())
	}

	frame := model.NewFrame(snapshot, d.collection, settings, d.now())
	frame.Rejected = rejected
	if fetchErr != nil {
		frame.Error = "Error loading data: " + fetchErr.Error()
	}

	logger.Debug("Dashboard frame computed",
		"cycleID", frame.CycleID,
		"state", frame.State,
		"records", snapshot.Len(),
		"rejected", len(rejected),
	)

	if err := d.renderer.Render(ctx, frame); err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to render frame",
			goerr.V("cycleID", frame.CycleID)))
	}

	return frame
}

// Run executes cycles until ctx is cancelled. In live mode it waits the configured
// interval after each render; in static mode it renders once and then idles until the
// settings change. Fetch failures never stop the loop.
func (d *Dashboard) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return goerr.New("dashboard loop is already running")
	}
	defer d.running.Store(false)

	logger := ctxlog.From(ctx)

	// drop wake-ups queued before the loop started; the first cycle reads fresh settings
	select {
	case <-d.wake:
	default:
	}

	for {
		if ctx.Err() != nil {
			logger.Info("Dashboard loop stopped")
			return nil
		}

		settings := d.Settings()
		d.refresh(ctx, settings)

		var wait <-chan time.Time
		if settings.Live {
			wait = d.after(settings.Interval)
		}

		select {
		case <-ctx.Done():
			logger.Info("Dashboard loop stopped")
			return nil
		case <-wait:
		case <-d.wake:
			logger.Debug("Dashboard settings changed, refreshing now",
				"mode", d.Settings().Mode(),
				"interval", d.Settings().Interval,
			)
		}
	}
}

var _ interfaces.Dashboard = (*Dashboard)(nil) // Compile-time interface check
