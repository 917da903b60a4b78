package model

import (
	"math"

	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

// ViewName identifies one of the chart views of the dashboard
type ViewName string

const (
	ViewBars    ViewName = "bars"
	ViewShares  ViewName = "shares"
	ViewSpreads ViewName = "spreads"
)

// ViewNames lists every chart view in display order
var ViewNames = []ViewName{ViewBars, ViewShares, ViewSpreads}

// IsValid checks if the view name is known
func (v ViewName) IsValid() bool {
	switch v {
	case ViewBars, ViewShares, ViewSpreads:
		return true
	default:
		return false
	}
}

// BarItem is one bar of the per-record comparison view
type BarItem struct {
	ID      types.RecordID `json:"id"`
	Subject string         `json:"subject"`
	Marks   float64        `json:"marks"`
}

// ShareItem is the proportion of total marks attributable to a subject
type ShareItem struct {
	Subject  string  `json:"subject"`
	Sum      float64 `json:"sum"`
	Fraction float64 `json:"fraction"`
}

// SpreadItem is the distribution of marks of a subject
type SpreadItem struct {
	Subject string    `json:"subject"`
	Min     float64   `json:"min"`
	Q1      float64   `json:"q1"`
	Median  float64   `json:"median"`
	Q3      float64   `json:"q3"`
	Max     float64   `json:"max"`
	Points  []float64 `json:"points"`
}

// Views holds the three chart view-specs derived from a snapshot
type Views struct {
	Bars    []BarItem    `json:"bars"`
	Shares  []ShareItem  `json:"shares"`
	Spreads []SpreadItem `json:"spreads"`
	// Subjects is the stable subject order used to assign colors across views
	Subjects []string `json:"subjects"`
}

// Row is one line of the raw data table
type Row struct {
	ID      types.RecordID `json:"id"`
	Subject string         `json:"subject"`
	Marks   float64        `json:"marks"`
	Tier    types.Tier     `json:"tier"`
}

// Views derives the per-record bars, subject shares and subject spreads
func (s *Snapshot) Views() *Views {
	if s.IsEmpty() {
		return nil
	}

	subjects := s.subjects()
	groups := s.marksBySubject()

	views := &Views{
		Bars:     make([]BarItem, 0, len(s.records)),
		Shares:   make([]ShareItem, 0, len(subjects)),
		Spreads:  make([]SpreadItem, 0, len(subjects)),
		Subjects: subjects,
	}

	// fractions are computed on scaled sums so they stay finite for any finite marks
	var scale float64
	for _, r := range s.records {
		views.Bars = append(views.Bars, BarItem{ID: r.ID, Subject: r.Subject, Marks: r.Marks})
		scale = math.Max(scale, math.Abs(r.Marks))
	}
	var scaledTotal float64
	if scale > 0 {
		for _, r := range s.records {
			scaledTotal += r.Marks / scale
		}
	}

	for _, subject := range subjects {
		values := groups[subject]

		var sum, scaledSum float64
		for _, v := range values {
			sum += v
			if scale > 0 {
				scaledSum += v / scale
			}
		}
		share := ShareItem{Subject: subject, Sum: sum}
		if scaledTotal != 0 {
			share.Fraction = scaledSum / scaledTotal
		}
		views.Shares = append(views.Shares, share)

		sorted := sortedCopy(values)
		views.Spreads = append(views.Spreads, SpreadItem{
			Subject: subject,
			Min:     sorted[0],
			Q1:      quantile(sorted, 0.25),
			Median:  quantile(sorted, 0.5),
			Q3:      quantile(sorted, 0.75),
			Max:     sorted[len(sorted)-1],
			Points:  values,
		})
	}

	return views
}

// Rows returns the raw table with a tier per record, in fetch order
func (s *Snapshot) Rows() []Row {
	if s.IsEmpty() {
		return nil
	}
	rows := make([]Row, len(s.records))
	for i, r := range s.records {
		rows[i] = Row{ID: r.ID, Subject: r.Subject, Marks: r.Marks, Tier: r.Tier()}
	}
	return rows
}
