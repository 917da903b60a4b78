package model

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/types"
)

// Palette is the presentational configuration consumed by the rendering boundary
type Palette struct {
	Subjects []string   `yaml:"subjects"` // Color sequence assigned to subjects in order
	Tiers    TierColors `yaml:"tiers"`
}

// TierColors holds background colors of the raw table per tier
type TierColors struct {
	High   string `yaml:"high"`
	Medium string `yaml:"medium"`
	Low    string `yaml:"low"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DefaultPalette returns the built-in color table
func DefaultPalette() *Palette {
	return &Palette{
		Subjects: []string{
			"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
			"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
		},
		Tiers: TierColors{
			High:   "#d4edda",
			Medium: "#fff3cd",
			Low:    "#f8d7da",
		},
	}
}

// Validate validates the palette
func (p *Palette) Validate() error {
	if len(p.Subjects) == 0 {
		return goerr.New("at least one subject color is required")
	}
	for i, c := range p.Subjects {
		if !hexColorPattern.MatchString(c) {
			return goerr.New("invalid subject color",
				goerr.V("index", i),
				goerr.V("color", c))
		}
	}

	for tier, c := range map[types.Tier]string{
		types.TierHigh:   p.Tiers.High,
		types.TierMedium: p.Tiers.Medium,
		types.TierLow:    p.Tiers.Low,
	} {
		if !hexColorPattern.MatchString(c) {
			return goerr.New("invalid tier color",
				goerr.V("tier", tier),
				goerr.V("color", c))
		}
	}

	return nil
}

// SubjectColor returns the color of the i-th subject, cycling through the sequence
func (p *Palette) SubjectColor(i int) string {
	if len(p.Subjects) == 0 || i < 0 {
		return DefaultPalette().Subjects[0]
	}
	return p.Subjects[i%len(p.Subjects)]
}

// TierColor returns the background color of a tier
func (p *Palette) TierColor(t types.Tier) string {
	switch t {
	case types.TierHigh:
		return p.Tiers.High
	case types.TierMedium:
		return p.Tiers.Medium
	default:
		return p.Tiers.Low
	}
}
