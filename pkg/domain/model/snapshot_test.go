package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

// scenarioDocs is the three-record set used across aggregation tests
func scenarioDocs() []model.Document {
	return []model.Document{
		{"__id": "r1", "Subject": "Math", "Marks": int64(8)},
		{"__id": "r2", "Subject": "Math", "Marks": int64(6)},
		{"__id": "r3", "Subject": "Science", "Marks": int64(9)},
	}
}

func TestNewSnapshot(t *testing.T) {
	t.Run("keeps valid and reports rejected", func(t *testing.T) {
		docs := append(scenarioDocs(),
			model.Document{"__id": "bad-1", "Subject": "Math"},
			model.Document{"__id": "bad-2", "Marks": 3},
		)

		snapshot, rejected := model.NewSnapshot(docs)
		gt.Equal(t, snapshot.Len(), 3)
		gt.A(t, rejected).Length(2)
		gt.Equal(t, rejected[0].ID, types.RecordID("bad-1"))
		gt.Equal(t, rejected[1].ID, types.RecordID("bad-2"))
	})

	t.Run("empty input", func(t *testing.T) {
		snapshot, rejected := model.NewSnapshot(nil)
		gt.True(t, snapshot.IsEmpty())
		gt.A(t, rejected).Length(0)
	})

	t.Run("records are copied", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(scenarioDocs())
		records := snapshot.Records()
		records[0].Marks = 100
		gt.Equal(t, snapshot.Records()[0].Marks, 8.0)
	})
}

func TestSnapshotKPI(t *testing.T) {
	t.Run("scenario with two subjects", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(scenarioDocs())
		kpi, err := snapshot.KPI()
		gt.NoError(t, err).Required()
		gt.Equal(t, model.Round2(kpi.Average), 7.67)
		gt.Equal(t, kpi.Max, 9.0)
		gt.Equal(t, kpi.Min, 6.0)
		gt.Equal(t, kpi.Subjects, 2)
		gt.Equal(t, kpi.Count, 3)
	})

	t.Run("empty snapshot skips aggregation", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(nil)
		kpi, err := snapshot.KPI()
		gt.V(t, kpi).Nil()
		gt.True(t, errors.Is(err, model.ErrEmptySnapshot))
	})

	t.Run("mean lies within min and max", func(t *testing.T) {
		sets := [][]float64{
			{1},
			{7.6666, 7.6666, 7.6666},
			{0, 10},
			{-5, 3.25, 9.99, 2},
			{6, 6, 6, 6, 6.000001},
			{1e308, 1e308},
			{-1e308, 1e308, 1e308},
			{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64},
		}
		for _, values := range sets {
			records := make([]model.Record, len(values))
			for i, v := range values {
				records[i] = model.Record{Subject: "S", Marks: v}
			}
			kpi, err := model.NewSnapshotFromRecords(records).KPI()
			gt.NoError(t, err)
			gt.True(t, kpi.Min <= kpi.Average)
			gt.True(t, kpi.Average <= kpi.Max)
			gt.False(t, math.IsInf(kpi.Average, 0) || math.IsNaN(kpi.Average))
		}
	})

	t.Run("extreme marks keep statistics finite", func(t *testing.T) {
		snapshot := model.NewSnapshotFromRecords([]model.Record{
			{Subject: "Math", Marks: -1e308},
			{Subject: "Math", Marks: 1e308},
			{Subject: "Art", Marks: 1e308},
		})
		insights, err := snapshot.Insights()
		gt.NoError(t, err).Required()
		gt.False(t, math.IsInf(insights.StdDev, 0) || math.IsNaN(insights.StdDev))
		gt.True(t, insights.StdDev > 0)
	})
}

func TestSnapshotGroupStats(t *testing.T) {
	t.Run("scenario math group", func(t *testing.T) {
		snapshot, _ := model.NewSnapshot(scenarioDocs())
		groups := snapshot.GroupStats()
		gt.A(t, groups).Length(2)

		gt.Equal(t, groups[0], model.SubjectStats{Subject: "Math", Average: 7, Max: 8, Min: 6, Count: 2})
		gt.Equal(t, groups[1], model.SubjectStats{Subject: "Science", Average: 9, Max: 9, Min: 9, Count: 1})
	})

	t.Run("counts sum to snapshot length", func(t *testing.T) {
		records := []model.Record{
			{Subject: "Math", Marks: 1},
			{Subject: "math", Marks: 2},
			{Subject: "Art", Marks: 3},
			{Subject: "Math", Marks: 4},
			{Subject: "Art", Marks: 5},
			{Subject: "History", Marks: 6},
		}
		snapshot := model.NewSnapshotFromRecords(records)
		groups := snapshot.GroupStats()

		total := 0
		for _, g := range groups {
			expected := 0
			for _, r := range records {
				if r.Subject == g.Subject {
					expected++
				}
			}
			gt.Equal(t, g.Count, expected)
			total += g.Count
		}
		gt.Equal(t, total, snapshot.Len())
		// grouping key is exact string equality
		gt.A(t, groups).Length(4)
	})

	t.Run("aggregation is deterministic", func(t *testing.T) {
		first, _ := model.NewSnapshot(scenarioDocs())
		second, _ := model.NewSnapshot(scenarioDocs())

		kpi1, err := first.KPI()
		gt.NoError(t, err)
		kpi2, err := second.KPI()
		gt.NoError(t, err)
		gt.Equal(t, *kpi1, *kpi2)
		gt.Equal(t, first.GroupStats(), second.GroupStats())
	})
}

func TestSnapshotInsights(t *testing.T) {
	snapshot, _ := model.NewSnapshot(scenarioDocs())
	insights, err := snapshot.Insights()
	gt.NoError(t, err).Required()
	gt.Equal(t, insights.BestRecordSubject, "Science")
	gt.Equal(t, insights.WorstRecordSubject, "Math")
	gt.Equal(t, insights.TopSubject, "Science")
	gt.Equal(t, insights.RangeMin, 6.0)
	gt.Equal(t, insights.RangeMax, 9.0)
	// sample standard deviation of 8, 6, 9
	gt.Equal(t, model.Round2(insights.StdDev), 1.53)

	empty, _ := model.NewSnapshot(nil)
	_, err = empty.Insights()
	gt.Error(t, err)
}
