package usecase_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
	"github.com/secmon-lab/scoreboard/pkg/repository"
	"github.com/secmon-lab/scoreboard/pkg/usecase"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return ctxlog.With(context.Background(), logger)
}

func scenarioDocs() []model.Document {
	return []model.Document{
		{"__id": "r1", "Subject": "Math", "Marks": int64(8)},
		{"__id": "r2", "Subject": "Math", "Marks": int64(6)},
		{"__id": "r3", "Subject": "Science", "Marks": int64(9)},
	}
}

func newRendererMock() *mocks.RendererMock {
	return &mocks.RendererMock{
		RenderFunc: func(ctx context.Context, frame *model.Frame) error {
			return nil
		},
	}
}

func TestDashboardRefresh(t *testing.T) {
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	t.Run("empty collection renders empty-state notice", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return []model.Document{}, nil
			},
		}
		renderer := newRendererMock()
		uc := usecase.NewDashboard(source, renderer, usecase.WithClock(func() time.Time { return fixed }))

		frame := uc.Refresh(ctx)
		gt.True(t, frame.IsEmpty())
		gt.S(t, frame.Notice).Contains("No data found")
		gt.Equal(t, frame.Error, "")
		gt.V(t, frame.KPI).Nil()
		gt.V(t, frame.Views).Nil()
		gt.A(t, frame.Groups).Length(0)
		gt.A(t, frame.Rows).Length(0)
		gt.Equal(t, frame.UpdatedAt, fixed)

		gt.A(t, renderer.RenderCalls()).Length(1)
		gt.Equal(t, renderer.RenderCalls()[0].Frame, frame)
		gt.Equal(t, source.FetchCollectionCalls()[0].Name, "scores")
	})

	t.Run("records produce KPIs and grouped stats", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return scenarioDocs(), nil
			},
		}
		uc := usecase.NewDashboard(source, newRendererMock())

		frame := uc.Refresh(ctx)
		gt.Equal(t, frame.State, types.FrameStateReady)
		gt.V(t, frame.KPI).NotNil()
		gt.Equal(t, model.Round2(frame.KPI.Average), 7.67)
		gt.Equal(t, frame.KPI.Max, 9.0)
		gt.Equal(t, frame.KPI.Min, 6.0)
		gt.Equal(t, frame.KPI.Subjects, 2)

		gt.A(t, frame.Groups).Length(2)
		gt.Equal(t, frame.Groups[0], model.SubjectStats{Subject: "Math", Average: 7, Max: 8, Min: 6, Count: 2})

		gt.A(t, frame.Rows).Length(3)
		gt.Equal(t, frame.Rows[0].Tier, types.TierHigh)
		gt.Equal(t, frame.Rows[1].Tier, types.TierMedium)
	})

	t.Run("malformed records are filtered and reported", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return append(scenarioDocs(),
					model.Document{"__id": "bad", "Subject": "Math"},
				), nil
			},
		}
		uc := usecase.NewDashboard(source, newRendererMock())

		frame := uc.Refresh(ctx)
		gt.Equal(t, frame.State, types.FrameStateReady)
		gt.Equal(t, frame.KPI.Count, 3)
		gt.A(t, frame.Rejected).Length(1)
		gt.Equal(t, frame.Rejected[0].ID, types.RecordID("bad"))
		gt.Equal(t, frame.Rejected[0].Reason, "Marks is missing")
	})

	t.Run("only malformed records leave an empty snapshot", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return []model.Document{{"__id": "x", "Marks": 3}}, nil
			},
		}
		uc := usecase.NewDashboard(source, newRendererMock())

		frame := uc.Refresh(ctx)
		gt.True(t, frame.IsEmpty())
		gt.A(t, frame.Rejected).Length(1)
	})

	t.Run("fetch failure recovers on the next cycle", func(t *testing.T) {
		ctx := testContext()
		mem := repository.NewMemory()
		for _, doc := range scenarioDocs() {
			mem.Put("scores", doc)
		}
		mem.SetError(goerr.New("connection refused"))

		uc := usecase.NewDashboard(mem, newRendererMock())

		failed := uc.Refresh(ctx)
		gt.S(t, failed.Error).Contains("Error loading data")
		gt.S(t, failed.Error).Contains("connection refused")
		gt.True(t, failed.IsEmpty())
		gt.V(t, failed.KPI).Nil()

		mem.SetError(nil)
		recovered := uc.Refresh(ctx)
		gt.Equal(t, recovered.Error, "")
		gt.Equal(t, recovered.State, types.FrameStateReady)
		gt.Equal(t, recovered.KPI.Count, 3)
	})

	t.Run("render failure does not break the cycle", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return scenarioDocs(), nil
			},
		}
		renderer := &mocks.RendererMock{
			RenderFunc: func(ctx context.Context, frame *model.Frame) error {
				return goerr.New("browser went away")
			},
		}
		uc := usecase.NewDashboard(source, renderer)

		frame := uc.Refresh(ctx)
		gt.Equal(t, frame.State, types.FrameStateReady)
	})

	t.Run("consecutive cycles over unchanged data are identical", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return scenarioDocs(), nil
			},
		}
		uc := usecase.NewDashboard(source, newRendererMock())

		first := uc.Refresh(ctx)
		second := uc.Refresh(ctx)
		gt.Equal(t, *first.KPI, *second.KPI)
		gt.Equal(t, first.Groups, second.Groups)
		gt.NotEqual(t, first.CycleID, second.CycleID)
	})

	t.Run("custom collection", func(t *testing.T) {
		ctx := testContext()
		source := &mocks.ScoreSourceMock{
			FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
				return nil, nil
			},
		}
		uc := usecase.NewDashboard(source, newRendererMock(), usecase.WithCollection("exam_scores"))

		frame := uc.Refresh(ctx)
		gt.Equal(t, frame.Collection, "exam_scores")
		gt.Equal(t, source.FetchCollectionCalls()[0].Name, "exam_scores")
	})
}

func TestDashboardSettings(t *testing.T) {
	source := &mocks.ScoreSourceMock{}

	t.Run("defaults", func(t *testing.T) {
		uc := usecase.NewDashboard(source, newRendererMock())
		gt.Equal(t, uc.Settings(), model.DefaultSettings())
	})

	t.Run("invalid initial settings fall back to defaults", func(t *testing.T) {
		uc := usecase.NewDashboard(source, newRendererMock(),
			usecase.WithSettings(model.Settings{Interval: time.Minute, Live: false}))
		gt.Equal(t, uc.Settings(), model.DefaultSettings())
	})

	t.Run("update validates bounds", func(t *testing.T) {
		uc := usecase.NewDashboard(source, newRendererMock())
		err := uc.UpdateSettings(model.Settings{Interval: time.Second, Live: true})
		gt.Error(t, err)
		gt.Equal(t, uc.Settings(), model.DefaultSettings())

		next := model.Settings{Interval: 12 * time.Second, Live: false}
		gt.NoError(t, uc.UpdateSettings(next))
		gt.Equal(t, uc.Settings(), next)
	})
}

// loopHarness wires a dashboard to channels so a test can step through Run
type loopHarness struct {
	mu     sync.Mutex
	events []string

	renders chan *model.Frame
	waits   chan time.Duration
	fire    chan time.Time
}

func newLoopHarness() *loopHarness {
	return &loopHarness{
		renders: make(chan *model.Frame, 16),
		waits:   make(chan time.Duration, 16),
		fire:    make(chan time.Time),
	}
}

func (h *loopHarness) record(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *loopHarness) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

func (h *loopHarness) dashboard(settings model.Settings) *usecase.Dashboard {
	source := &mocks.ScoreSourceMock{
		FetchCollectionFunc: func(ctx context.Context, name string) ([]model.Document, error) {
			h.record("fetch")
			return scenarioDocs(), nil
		},
	}
	renderer := &mocks.RendererMock{
		RenderFunc: func(ctx context.Context, frame *model.Frame) error {
			h.record("render")
			h.renders <- frame
			return nil
		},
	}
	after := func(d time.Duration) <-chan time.Time {
		h.record("wait")
		h.waits <- d
		return h.fire
	}
	return usecase.NewDashboard(source, renderer,
		usecase.WithSettings(settings),
		usecase.WithTimer(after),
	)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for loop")
		var zero T
		return zero
	}
}

func expectNone[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected loop activity: %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func runLoop(t *testing.T, uc *usecase.Dashboard) (context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(testContext())
	done := make(chan error, 1)
	go func() {
		done <- uc.Run(ctx)
	}()
	return cancel, done
}

func TestDashboardRun(t *testing.T) {
	t.Run("live mode waits the interval after each render", func(t *testing.T) {
		h := newLoopHarness()
		uc := h.dashboard(model.Settings{Interval: 5 * time.Second, Live: true})
		cancel, done := runLoop(t, uc)

		first := receive(t, h.renders)
		gt.Equal(t, first.Mode, types.ModeLive)
		gt.Equal(t, receive(t, h.waits), 5*time.Second)

		// no second fetch until the timer fires
		expectNone(t, h.renders)
		h.fire <- time.Now()

		receive(t, h.renders)
		gt.Equal(t, receive(t, h.waits), 5*time.Second)

		cancel()
		gt.NoError(t, receive(t, done))
		gt.Equal(t, h.recorded(), []string{"fetch", "render", "wait", "fetch", "render", "wait"})
	})

	t.Run("static mode renders once", func(t *testing.T) {
		h := newLoopHarness()
		uc := h.dashboard(model.Settings{Interval: 5 * time.Second, Live: false})
		cancel, done := runLoop(t, uc)

		frame := receive(t, h.renders)
		gt.Equal(t, frame.Mode, types.ModeStatic)
		expectNone(t, h.waits)
		expectNone(t, h.renders)

		cancel()
		gt.NoError(t, receive(t, done))
		gt.Equal(t, h.recorded(), []string{"fetch", "render"})
	})

	t.Run("switching to live interrupts idle static session", func(t *testing.T) {
		h := newLoopHarness()
		uc := h.dashboard(model.Settings{Interval: 5 * time.Second, Live: false})
		cancel, done := runLoop(t, uc)
		defer cancel()

		receive(t, h.renders)
		gt.NoError(t, uc.UpdateSettings(model.Settings{Interval: 3 * time.Second, Live: true}))

		frame := receive(t, h.renders)
		gt.Equal(t, frame.Mode, types.ModeLive)
		gt.Equal(t, frame.Interval, 3)
		gt.Equal(t, receive(t, h.waits), 3*time.Second)

		cancel()
		gt.NoError(t, receive(t, done))
	})

	t.Run("changing interval cancels the pending wait", func(t *testing.T) {
		h := newLoopHarness()
		uc := h.dashboard(model.Settings{Interval: 30 * time.Second, Live: true})
		cancel, done := runLoop(t, uc)
		defer cancel()

		receive(t, h.renders)
		gt.Equal(t, receive(t, h.waits), 30*time.Second)

		// the timer never fires; the settings change alone starts the next cycle
		gt.NoError(t, uc.UpdateSettings(model.Settings{Interval: 2 * time.Second, Live: true}))
		frame := receive(t, h.renders)
		gt.Equal(t, frame.Interval, 2)
		gt.Equal(t, receive(t, h.waits), 2*time.Second)

		cancel()
		gt.NoError(t, receive(t, done))
	})

	t.Run("switching to static stops polling", func(t *testing.T) {
		h := newLoopHarness()
		uc := h.dashboard(model.Settings{Interval: 5 * time.Second, Live: true})
		cancel, done := runLoop(t, uc)
		defer cancel()

		receive(t, h.renders)
		receive(t, h.waits)

		gt.NoError(t, uc.UpdateSettings(model.Settings{Interval: 5 * time.Second, Live: false}))
		frame := receive(t, h.renders)
		gt.Equal(t, frame.Mode, types.ModeStatic)
		expectNone(t, h.waits)

		cancel()
		gt.NoError(t, receive(t, done))
	})

	t.Run("fetch failures never stop the loop", func(t *testing.T) {
		mem := repository.NewMemory()
		mem.SetError(goerr.New("permission denied"))

		renders := make(chan *model.Frame, 4)
		fire := make(chan time.Time)
		uc := usecase.NewDashboard(mem,
			&mocks.RendererMock{RenderFunc: func(ctx context.Context, frame *model.Frame) error {
				renders <- frame
				return nil
			}},
			usecase.WithTimer(func(time.Duration) <-chan time.Time { return fire }),
		)
		cancel, done := runLoop(t, uc)
		defer cancel()

		failed := receive(t, renders)
		gt.S(t, failed.Error).Contains("permission denied")

		mem.SetError(nil)
		mem.Put("scores", model.Document{"Subject": "Math", "Marks": 7})
		fire <- time.Now()

		recovered := receive(t, renders)
		gt.Equal(t, recovered.Error, "")
		gt.Equal(t, recovered.State, types.FrameStateReady)

		cancel()
		gt.NoError(t, receive(t, done))
	})

	t.Run("second concurrent run is rejected", func(t *testing.T) {
		h := newLoopHarness()
		uc := h.dashboard(model.Settings{Interval: 5 * time.Second, Live: false})
		cancel, done := runLoop(t, uc)

		receive(t, h.renders)
		gt.Error(t, uc.Run(testContext()))

		cancel()
		gt.NoError(t, receive(t, done))
	})
}
