package types

import (
	"github.com/google/uuid"
)

// RecordID represents the store-assigned key of a score document
type RecordID string

// String returns the string representation
func (id RecordID) String() string {
	return string(id)
}

// CycleID identifies one fetch/render cycle of the dashboard
type CycleID string

// String returns the string representation
func (id CycleID) String() string {
	return string(id)
}

// NewCycleID creates a new CycleID using UUID v7 so that IDs sort by time
func NewCycleID() CycleID {
	id, err := uuid.NewV7()
	if err != nil {
		return CycleID(uuid.New().String())
	}
	return CycleID(id.String())
}

// CollectionName represents a logical collection in the document store
type CollectionName string

// String returns the string representation
func (n CollectionName) String() string {
	return string(n)
}

// DefaultCollection is the collection holding score records
const DefaultCollection CollectionName = "scores"
