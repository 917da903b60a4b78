package http

import (
	"bytes"
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/service/chart"
)

// FrameStore is the browser-facing rendering boundary. It keeps the latest frame for
// the page and API, and caches chart images of that frame until the next cycle.
type FrameStore struct {
	charts *chart.Renderer

	mu     sync.RWMutex
	frame  *model.Frame
	images map[chartKey][]byte
}

type chartKey struct {
	view   model.ViewName
	format chart.Format
}

// NewFrameStore creates an empty frame store
func NewFrameStore(charts *chart.Renderer) *FrameStore {
	return &FrameStore{
		charts: charts,
		images: make(map[chartKey][]byte),
	}
}

// Render replaces the current frame and drops images of the previous one
func (s *FrameStore) Render(ctx context.Context, frame *model.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame = frame
	s.images = make(map[chartKey][]byte)

	ctxlog.From(ctx).Debug("Frame published",
		"cycleID", frame.CycleID,
		"state", frame.State,
	)
	return nil
}

// Latest returns the most recent frame, or nil before the first cycle
func (s *FrameStore) Latest() *model.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Chart returns an image of one view of the latest frame, rendering it on first use
func (s *FrameStore) Chart(view model.ViewName, format chart.Format) ([]byte, error) {
	key := chartKey{view: view, format: format}

	s.mu.RLock()
	frame := s.frame
	img, ok := s.images[key]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	var views *model.Views
	if frame != nil {
		views = frame.Views
	}

	var buf bytes.Buffer
	if err := s.charts.Render(&buf, view, views, format); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// keep the image only if no newer frame arrived while rendering
	if s.frame == frame {
		s.images[key] = buf.Bytes()
	}
	return buf.Bytes(), nil
}

var _ interfaces.Renderer = (*FrameStore)(nil) // Compile-time interface check
