package model_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

func TestNewFrame(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	t.Run("empty snapshot produces notice only", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(nil)
		frame := model.NewFrame(snapshot, "scores", model.DefaultSettings(), now)

		gt.True(t, frame.IsEmpty())
		gt.Equal(t, frame.State, types.FrameStateEmpty)
		gt.S(t, frame.Notice).Contains("scores")
		gt.V(t, frame.KPI).Nil()
		gt.V(t, frame.Views).Nil()
		gt.V(t, frame.Insights).Nil()
		gt.A(t, frame.Groups).Length(0)
		gt.A(t, frame.Rows).Length(0)
	})

	t.Run("ready frame carries every view", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(scenarioDocs())
		settings, err := model.NewSettings(10, false)
		gt.NoError(t, err)

		frame := model.NewFrame(snapshot, "scores", settings, now)
		gt.Equal(t, frame.State, types.FrameStateReady)
		gt.Equal(t, frame.Mode, types.ModeStatic)
		gt.Equal(t, frame.Interval, 10)
		gt.Equal(t, frame.UpdatedAt, now)
		gt.V(t, frame.KPI).NotNil()
		gt.A(t, frame.Groups).Length(2)
		gt.A(t, frame.Rows).Length(3)
		gt.V(t, frame.Views).NotNil()
		gt.True(t, frame.CycleID != "")
		gt.True(t, frame.NextUpdate().IsZero())
	})

	t.Run("live frame schedules the next update", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(scenarioDocs())
		frame := model.NewFrame(snapshot, "scores", model.DefaultSettings(), now)
		gt.Equal(t, frame.NextUpdate(), now.Add(5*time.Second))
	})
}

func TestFrameBoundaryMarks(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	docs := []model.Document{
		{"__id": "huge", "Subject": "Math", "Marks": 1e308},
		{"__id": "top-1", "Subject": "Math", "Marks": model.MaxMarksMagnitude},
		{"__id": "top-2", "Subject": "Art", "Marks": model.MaxMarksMagnitude},
		{"__id": "low", "Subject": "Art", "Marks": -model.MaxMarksMagnitude},
	}
	snapshot, rejected := model.NewSnapshot(docs)
	gt.A(t, rejected).Length(1)
	gt.Equal(t, rejected[0].ID, types.RecordID("huge"))

	frame := model.NewFrame(snapshot, "scores", model.DefaultSettings(), now)
	frame.Rejected = rejected
	gt.True(t, frame.KPI.Min <= frame.KPI.Average)
	gt.True(t, frame.KPI.Average <= frame.KPI.Max)
	for _, s := range frame.Views.Shares {
		gt.False(t, math.IsInf(s.Sum, 0) || math.IsNaN(s.Fraction))
	}

	_, err := json.Marshal(frame)
	gt.NoError(t, err)
}
