package model

import (
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

// Field names of a score document
const (
	FieldID      = "__id"
	FieldSubject = "Subject"
	FieldMarks   = "Marks"
)

// MaxMarksMagnitude bounds |Marks|. Sums and squared deviations of bounded marks stay
// finite for any realistic collection size.
const MaxMarksMagnitude = 1e15

// Document is one raw document as fetched from the store. The store-assigned key is
// kept under FieldID.
type Document map[string]any

// ID returns the store-assigned key of the document, or empty if absent
func (d Document) ID() types.RecordID {
	if v, ok := d[FieldID].(string); ok {
		return types.RecordID(v)
	}
	return ""
}

// Record is a validated score document
type Record struct {
	ID      types.RecordID `json:"id"`
	Subject string         `json:"subject"`
	Marks   float64        `json:"marks"`
}

// Tier returns the presentational tier of the record's marks
func (r Record) Tier() types.Tier {
	return types.TierOf(r.Marks)
}

// RejectedRecord is a document that failed validation
type RejectedRecord struct {
	ID     types.RecordID `json:"id"`
	Reason string         `json:"reason"`
}

// Err converts the rejection into a tagged error
func (r RejectedRecord) Err() error {
	return goerr.New("malformed record",
		goerr.V("id", r.ID),
		goerr.V("reason", r.Reason),
		goerr.T(ErrTagMalformedRecord))
}

// ParseRecord validates a raw document. Exactly one of the results is non-nil.
func ParseRecord(doc Document) (*Record, *RejectedRecord) {
	id := doc.ID()
	reject := func(reason string) (*Record, *RejectedRecord) {
		return nil, &RejectedRecord{ID: id, Reason: reason}
	}

	rawSubject, ok := doc[FieldSubject]
	if !ok || rawSubject == nil {
		return reject("Subject is missing")
	}
	subject, ok := rawSubject.(string)
	if !ok {
		return reject("Subject is not a string")
	}
	if strings.TrimSpace(subject) == "" {
		return reject("Subject is empty")
	}

	rawMarks, ok := doc[FieldMarks]
	if !ok || rawMarks == nil {
		return reject("Marks is missing")
	}
	marks, ok := toFloat(rawMarks)
	if !ok {
		return reject("Marks is not a number")
	}
	if math.IsNaN(marks) || math.IsInf(marks, 0) {
		return reject("Marks is not a finite number")
	}
	if math.Abs(marks) > MaxMarksMagnitude {
		return reject("Marks is out of range")
	}

	return &Record{ID: id, Subject: subject, Marks: marks}, nil
}

// toFloat accepts the numeric kinds the Firestore client decodes into (int64, float64)
// as well as the other Go numeric kinds used by in-memory sources.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
