package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Palette holds the chart and table color configuration
type Palette struct {
	Path string
}

// Flags returns CLI flags for Palette configuration
func (p *Palette) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "palette",
			Usage:       "YAML file with subject and tier colors (default: built-in palette)",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("SCOREBOARD_PALETTE"),
			Destination: &p.Path,
		},
	}
}

// Configure returns the palette from Path, or the built-in palette when Path is empty
func (p *Palette) Configure() (*model.Palette, error) {
	if p.Path == "" {
		return model.DefaultPalette(), nil
	}
	return LoadPaletteFromFile(p.Path)
}

// LogValue returns structured log value
func (p Palette) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", p.Path))
}

// LoadPaletteFromFile loads a palette from YAML file. Omitted fields keep built-in colors.
func LoadPaletteFromFile(path string) (*model.Palette, error) {
	if path == "" {
		return nil, goerr.New("palette file path is required")
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "palette file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read palette file",
			goerr.V("path", path))
	}

	// Parse YAML over the defaults
	palette := model.DefaultPalette()
	if err := yaml.Unmarshal(data, palette); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML palette",
			goerr.V("path", path))
	}

	if err := palette.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid palette",
			goerr.V("path", path))
	}

	return palette, nil
}
