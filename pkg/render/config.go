package render

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/inkqr/inkqr/pkg/centerpiece"
	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Style Configuration
// =============================================================================

// StyleConfig is the full visual configuration for one rendering, loadable
// from a TOML style file.
type StyleConfig struct {
	Shape      string  `toml:"shape" json:"shape"`
	ModuleSize float64 `toml:"module_size" json:"module_size"` // pixels per module
	Border     int     `toml:"border" json:"border"`           // quiet zone in modules

	Background  string `toml:"background" json:"background"`
	Foreground  string `toml:"foreground" json:"foreground"`
	FinderColor string `toml:"finder_color" json:"finder_color"` // empty inherits foreground

	Frame       FrameConfig        `toml:"frame" json:"frame"`
	Cluster     ClusterStyle       `toml:"cluster" json:"cluster"`
	Centerpiece centerpiece.Config `toml:"centerpiece" json:"centerpiece"`
}

// FrameConfig selects the outer frame clip.
type FrameConfig struct {
	Shape  string  `toml:"shape" json:"shape"`
	Radius float64 `toml:"radius" json:"radius"` // rounded frames, pixels
}

// ClusterStyle controls unified cluster rendering.
type ClusterStyle struct {
	Enabled          bool    `toml:"enabled" json:"enabled"`
	MinSize          int     `toml:"min_size" json:"min_size"`
	DensityThreshold float64 `toml:"density_threshold" json:"density_threshold"`
}

// DefaultStyle returns the baseline black-on-white square rendering.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		Shape:      ShapeNameSquare,
		ModuleSize: 10,
		Border:     4,
		Background: "#ffffff",
		Foreground: "#000000",
		Frame:      FrameConfig{Shape: FrameNameNone},
		Cluster:    ClusterStyle{MinSize: 3, DensityThreshold: 0.5},
	}
}

// LoadStyle reads a TOML style file over the defaults, so partial files only
// override what they mention.
func LoadStyle(path string) (StyleConfig, error) {
	cfg := DefaultStyle()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read style file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parse style file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks shape and frame names and the numeric ranges.
func (c StyleConfig) Validate() error {
	if _, err := ShapeByName(c.Shape); err != nil {
		return err
	}
	switch c.Frame.Shape {
	case "", FrameNameNone, FrameNameSquare, FrameNameCircle, FrameNameRounded:
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unknown frame %q", c.Frame.Shape)
	}
	if c.ModuleSize <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "module_size must be positive, got %g", c.ModuleSize)
	}
	if c.Border < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "border must be >= 0, got %d", c.Border)
	}
	if c.Cluster.Enabled {
		if c.Cluster.MinSize < 1 {
			return errors.New(errors.ErrCodeInvalidStyle, "cluster min_size must be >= 1")
		}
		if c.Cluster.DensityThreshold < 0 || c.Cluster.DensityThreshold > 1 {
			return errors.New(errors.ErrCodeInvalidStyle, "cluster density_threshold must be in [0, 1]")
		}
	}
	if c.Centerpiece.Enabled {
		if err := c.Centerpiece.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// finder returns the effective finder color.
func (c StyleConfig) finder() string {
	if c.FinderColor != "" {
		return c.FinderColor
	}
	return c.Foreground
}
