package centerpiece

import (
	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Configuration
// =============================================================================

// Shape selects the reserve area geometry.
type Shape string

// Supported reserve shapes.
const (
	ShapeRect     Shape = "rect"
	ShapeCircle   Shape = "circle"
	ShapeSquircle Shape = "squircle"
)

// Mode selects how the reserve is applied to the matrix.
type Mode string

// Reserve application modes.
const (
	// ModeKnockout fully clears reserved modules.
	ModeKnockout Mode = "knockout"
	// ModeImprint keeps all modules and computes visual treatments.
	ModeImprint Mode = "imprint"
)

// Placement selects where the reserve area sits.
type Placement string

// Reserve placements. Offsets apply only under PlacementCustom.
const (
	PlacementCenter  Placement = "center"
	PlacementCustom  Placement = "custom"
	PlacementCorners Placement = "corners"
	PlacementEdges   Placement = "edges"
)

// Config describes a centerpiece reserve area. Values are expected to be
// schema-validated upstream; Validate re-checks the documented ranges for
// callers embedding the engine directly.
type Config struct {
	Enabled   bool      `json:"enabled" toml:"enabled"`
	Shape     Shape     `json:"shape" toml:"shape"`
	Size      float64   `json:"size" toml:"size"` // fraction of matrix size, (0, 0.5]
	OffsetX   float64   `json:"offset_x" toml:"offset_x"`
	OffsetY   float64   `json:"offset_y" toml:"offset_y"`
	Margin    float64   `json:"margin" toml:"margin"` // extra modules around the reserve
	Mode      Mode      `json:"mode" toml:"mode"`
	Placement Placement `json:"placement" toml:"placement"`
}

// withDefaults fills unset enum fields.
func (c Config) withDefaults() Config {
	if c.Shape == "" {
		c.Shape = ShapeRect
	}
	if c.Mode == "" {
		c.Mode = ModeKnockout
	}
	if c.Placement == "" {
		c.Placement = PlacementCenter
	}
	return c
}

// Validate checks the documented value ranges.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Enabled && c.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "enabled centerpiece requires size > 0")
	}
	if c.Size < 0 || c.Size > 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "centerpiece size %g out of range (0, 0.5]", c.Size)
	}
	if c.OffsetX < -0.5 || c.OffsetX > 0.5 || c.OffsetY < -0.5 || c.OffsetY > 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "centerpiece offsets must be in [-0.5, 0.5]")
	}
	if c.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "centerpiece margin must be >= 0")
	}
	switch c.Shape {
	case ShapeRect, ShapeCircle, ShapeSquircle:
	default:
		return errors.New(errors.ErrCodeInvalidShape, "unknown centerpiece shape %q", c.Shape)
	}
	switch c.Mode {
	case ModeKnockout, ModeImprint:
	default:
		return errors.New(errors.ErrCodeInvalidMode, "unknown centerpiece mode %q", c.Mode)
	}
	switch c.Placement {
	case PlacementCenter, PlacementCustom, PlacementCorners, PlacementEdges:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown centerpiece placement %q", c.Placement)
	}
	return nil
}
