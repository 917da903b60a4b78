package model

import (
	"sort"
)

// Snapshot is the set of valid records fetched in one poll cycle. It is rebuilt from
// scratch every cycle and only ever holds records accepted by ParseRecord.
type Snapshot struct {
	records []Record
}

// NewSnapshot validates documents and keeps the valid ones. Rejected documents are
// returned alongside so that the caller can report them.
func NewSnapshot(docs []Document) (*Snapshot, []RejectedRecord) {
	s := &Snapshot{records: make([]Record, 0, len(docs))}
	var rejected []RejectedRecord

	for _, doc := range docs {
		record, rej := ParseRecord(doc)
		if rej != nil {
			rejected = append(rejected, *rej)
			continue
		}
		s.records = append(s.records, *record)
	}

	return s, rejected
}

// NewSnapshotFromRecords builds a snapshot from already validated records
func NewSnapshotFromRecords(records []Record) *Snapshot {
	out := make([]Record, len(records))
	copy(out, records)
	return &Snapshot{records: out}
}

// Len returns the number of records
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// IsEmpty reports whether the snapshot holds no records
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0
}

// Records returns a copy of the records in fetch order
func (s *Snapshot) Records() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Snapshot) marks() []float64 {
	values := make([]float64, len(s.records))
	for i, r := range s.records {
		values[i] = r.Marks
	}
	return values
}

// subjects returns distinct subjects sorted by name
func (s *Snapshot) subjects() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range s.records {
		if !seen[r.Subject] {
			seen[r.Subject] = true
			names = append(names, r.Subject)
		}
	}
	sort.Strings(names)
	return names
}

// marksBySubject groups marks by exact Subject equality
func (s *Snapshot) marksBySubject() map[string][]float64 {
	groups := make(map[string][]float64)
	for _, r := range s.records {
		groups[r.Subject] = append(groups[r.Subject], r.Marks)
	}
	return groups
}

// KPI holds the aggregate scalars of a snapshot
type KPI struct {
	Average  float64 `json:"average"`
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
	Subjects int     `json:"subjects"`
	Count    int     `json:"count"`
}

// KPI computes mean, max and min of Marks and the number of distinct subjects.
// It returns ErrEmptySnapshot when there is nothing to aggregate.
func (s *Snapshot) KPI() (*KPI, error) {
	if s.IsEmpty() {
		return nil, ErrEmptySnapshot
	}

	values := s.marks()
	lo, hi := minMax(values)
	return &KPI{
		Average:  mean(values),
		Max:      hi,
		Min:      lo,
		Subjects: len(s.subjects()),
		Count:    len(values),
	}, nil
}

// SubjectStats holds grouped statistics of one subject
type SubjectStats struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Count   int     `json:"count"`
}

// GroupStats computes mean, max, min and count of Marks per subject, ordered by subject
func (s *Snapshot) GroupStats() []SubjectStats {
	if s.IsEmpty() {
		return nil
	}

	groups := s.marksBySubject()
	stats := make([]SubjectStats, 0, len(groups))
	for _, subject := range s.subjects() {
		values := groups[subject]
		lo, hi := minMax(values)
		stats = append(stats, SubjectStats{
			Subject: subject,
			Average: mean(values),
			Max:     hi,
			Min:     lo,
			Count:   len(values),
		})
	}
	return stats
}

// Insights holds the narrative figures shown next to the grouped statistics
type Insights struct {
	// BestRecordSubject is the subject of the single highest score
	BestRecordSubject string `json:"best_record_subject"`
	// WorstRecordSubject is the subject of the single lowest score
	WorstRecordSubject string `json:"worst_record_subject"`
	// TopSubject has the highest average
	TopSubject string  `json:"top_subject"`
	RangeMin   float64 `json:"range_min"`
	RangeMax   float64 `json:"range_max"`
	StdDev     float64 `json:"std_dev"`
}

// Insights derives best/worst subjects, the score range and the sample standard
// deviation. Ties resolve to the first record in fetch order, or the first subject
// by name for averages.
func (s *Snapshot) Insights() (*Insights, error) {
	if s.IsEmpty() {
		return nil, ErrEmptySnapshot
	}

	best, worst := s.records[0], s.records[0]
	for _, r := range s.records[1:] {
		if r.Marks > best.Marks {
			best = r
		}
		if r.Marks < worst.Marks {
			worst = r
		}
	}

	groups := s.GroupStats()
	top := groups[0]
	for _, g := range groups[1:] {
		if g.Average > top.Average {
			top = g
		}
	}

	values := s.marks()
	return &Insights{
		BestRecordSubject:  best.Subject,
		WorstRecordSubject: worst.Subject,
		TopSubject:         top.Subject,
		RangeMin:           worst.Marks,
		RangeMax:           best.Marks,
		StdDev:             sampleStdDev(values),
	}, nil
}
