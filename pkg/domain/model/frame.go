package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

// Frame is everything one cycle hands to the rendering boundary
type Frame struct {
	CycleID    types.CycleID    `json:"cycle_id"`
	Collection string           `json:"collection"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Mode       types.Mode       `json:"mode"`
	Interval   int              `json:"interval_sec"`
	State      types.FrameState `json:"state"`

	// Error is a user-visible message when the fetch failed in this cycle
	Error string `json:"error,omitempty"`
	// Notice is a user-visible message for the empty state
	Notice string `json:"notice,omitempty"`

	KPI      *KPI             `json:"kpi,omitempty"`
	Groups   []SubjectStats   `json:"groups,omitempty"`
	Insights *Insights        `json:"insights,omitempty"`
	Views    *Views           `json:"views,omitempty"`
	Rows     []Row            `json:"rows,omitempty"`
	Rejected []RejectedRecord `json:"rejected,omitempty"`
}

// NewFrame computes a frame from a snapshot. An empty snapshot yields an empty-state
// frame with a notice and no KPIs, charts or tables.
func NewFrame(snapshot *Snapshot, collection string, settings Settings, now time.Time) *Frame {
	frame := &Frame{
		CycleID:    types.NewCycleID(),
		Collection: collection,
		UpdatedAt:  now,
		Mode:       settings.Mode(),
		Interval:   settings.IntervalSeconds(),
	}

	if snapshot.IsEmpty() {
		frame.State = types.FrameStateEmpty
		frame.Notice = fmt.Sprintf("No data found in collection '%s'", collection)
		return frame
	}

	// snapshot is non-empty, so neither call can fail
	kpi, _ := snapshot.KPI()
	insights, _ := snapshot.Insights()

	frame.State = types.FrameStateReady
	frame.KPI = kpi
	frame.Groups = snapshot.GroupStats()
	frame.Insights = insights
	frame.Views = snapshot.Views()
	frame.Rows = snapshot.Rows()
	return frame
}

// IsEmpty reports whether the frame is in the empty state
func (f *Frame) IsEmpty() bool {
	return f.State == types.FrameStateEmpty
}

// NextUpdate returns when the next cycle is due in live mode, or zero time in static mode
func (f *Frame) NextUpdate() time.Time {
	if f.Mode != types.ModeLive {
		return time.Time{}
	}
	return f.UpdatedAt.Add(time.Duration(f.Interval) * time.Second)
}
