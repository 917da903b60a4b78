package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

// Bounds of the operator-adjustable refresh interval
const (
	MinRefreshInterval     = 2 * time.Second
	MaxRefreshInterval     = 30 * time.Second
	DefaultRefreshInterval = 5 * time.Second
)

// Settings is the dashboard session state read once per cycle
type Settings struct {
	Interval time.Duration
	Live     bool
}

// DefaultSettings returns a live session refreshing every 5 seconds
func DefaultSettings() Settings {
	return Settings{
		Interval: DefaultRefreshInterval,
		Live:     true,
	}
}

// NewSettings builds settings from an interval in whole seconds. The seconds are
// range-checked before conversion so huge values cannot wrap into the valid range.
func NewSettings(intervalSec int, live bool) (Settings, error) {
	minSec, maxSec := int(MinRefreshInterval/time.Second), int(MaxRefreshInterval/time.Second)
	if intervalSec < minSec || intervalSec > maxSec {
		return Settings{}, goerr.Wrap(ErrInvalidSettings, "refresh interval out of range",
			goerr.V("interval_sec", intervalSec),
			goerr.V("min", MinRefreshInterval.String()),
			goerr.V("max", MaxRefreshInterval.String()))
	}

	s := Settings{
		Interval: time.Duration(intervalSec) * time.Second,
		Live:     live,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the interval is a whole number of seconds within bounds
func (s Settings) Validate() error {
	if s.Interval%time.Second != 0 {
		return goerr.Wrap(ErrInvalidSettings, "refresh interval must be whole seconds",
			goerr.V("interval", s.Interval.String()))
	}
	if s.Interval < MinRefreshInterval || s.Interval > MaxRefreshInterval {
		return goerr.Wrap(ErrInvalidSettings, "refresh interval out of range",
			goerr.V("interval", s.Interval.String()),
			goerr.V("min", MinRefreshInterval.String()),
			goerr.V("max", MaxRefreshInterval.String()))
	}
	return nil
}

// IntervalSeconds returns the interval in whole seconds
func (s Settings) IntervalSeconds() int {
	return int(s.Interval / time.Second)
}

// Mode returns the refresh mode
func (s Settings) Mode() types.Mode {
	return types.ModeOf(s.Live)
}
