package types

// Tier is a presentational classification of a Marks value
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

const (
	tierHighFloor   = 8.0
	tierMediumFloor = 6.0
)

// TierOf classifies marks. Lower bounds are inclusive: >=8 high, >=6 medium, otherwise low.
func TierOf(marks float64) Tier {
	switch {
	case marks >= tierHighFloor:
		return TierHigh
	case marks >= tierMediumFloor:
		return TierMedium
	default:
		return TierLow
	}
}

// String returns the string representation
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the tier is one of the known tiers
func (t Tier) IsValid() bool {
	switch t {
	case TierHigh, TierMedium, TierLow:
		return true
	default:
		return false
	}
}
