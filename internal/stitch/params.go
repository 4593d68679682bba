package stitch

import "fmt"

// Pattern selects the candidate layout used by the planner.
type Pattern string

const (
	// PatternGrid lays candidates on a square grid.
	PatternGrid Pattern = "grid"
	// PatternStaggered lays candidates in hexagonal packing: every other
	// row is shifted by half the horizontal pitch.
	PatternStaggered Pattern = "staggered"
	// PatternBoundary follows the zone outline, inset by the clearance.
	PatternBoundary Pattern = "boundary"
	// PatternSpiral winds outward from the zone center.
	PatternSpiral Pattern = "spiral"
)

// Patterns lists all supported patterns in display order.
func Patterns() []Pattern {
	return []Pattern{PatternGrid, PatternStaggered, PatternBoundary, PatternSpiral}
}

// ParsePattern converts a stored pattern name to a Pattern.
func ParsePattern(s string) (Pattern, error) {
	switch Pattern(s) {
	case PatternGrid, PatternStaggered, PatternBoundary, PatternSpiral:
		return Pattern(s), nil
	}
	return "", fmt.Errorf("%w: unknown pattern %q", ErrInvalidParameters, s)
}

// Params holds the user-facing stitching settings. All distances are mm.
type Params struct {
	ViaSize   float64 `json:"via_size_mm"`   // outer pad diameter
	DrillSize float64 `json:"drill_size_mm"` // drill diameter

	HSpacing float64 `json:"h_spacing_mm"` // horizontal center-to-center pitch
	VSpacing float64 `json:"v_spacing_mm"` // vertical center-to-center pitch
	HOffset  float64 `json:"h_offset_mm"`  // horizontal grid origin shift
	VOffset  float64 `json:"v_offset_mm"`  // vertical grid origin shift

	// EdgeClearance is the minimum distance from the via's edge (not its
	// center) to the zone boundary.
	EdgeClearance float64 `json:"edge_clearance_mm"`

	Pattern Pattern `json:"pattern"`
	Jitter  bool    `json:"jitter"` // perturb candidates by up to 20% of pitch

	NetName    string `json:"net_name"`     // target net when UseZoneNet is off
	UseZoneNet bool   `json:"use_zone_net"` // inherit each zone's own net
	GroupVias  bool   `json:"group_vias"`   // collect created vias into groups

	// ClearPluginOnly restricts the clear action to vias that belong to a
	// stitching group, leaving manually placed vias alone.
	ClearPluginOnly bool `json:"clear_plugin_vias"`
}

// DefaultParams returns the stock plugin settings.
func DefaultParams() Params {
	return Params{
		ViaSize:         0.6,
		DrillSize:       0.3,
		HSpacing:        1.27,
		VSpacing:        1.27,
		EdgeClearance:   0.5,
		Pattern:         PatternGrid,
		NetName:         "GND",
		GroupVias:       true,
		ClearPluginOnly: true,
	}
}

// Validate checks the parameters, returning an error wrapping
// ErrInvalidParameters that names the offending field.
func (p Params) Validate() error {
	if p.ViaSize <= 0 {
		return fmt.Errorf("%w: via size must be positive, got %g", ErrInvalidParameters, p.ViaSize)
	}
	if p.DrillSize <= 0 {
		return fmt.Errorf("%w: drill size must be positive, got %g", ErrInvalidParameters, p.DrillSize)
	}
	if p.DrillSize >= p.ViaSize {
		return fmt.Errorf("%w: drill size %g must be smaller than via size %g",
			ErrInvalidParameters, p.DrillSize, p.ViaSize)
	}
	if p.HSpacing <= 0 || p.VSpacing <= 0 {
		return fmt.Errorf("%w: spacing must be positive, got %gx%g",
			ErrInvalidParameters, p.HSpacing, p.VSpacing)
	}
	if p.EdgeClearance < 0 {
		return fmt.Errorf("%w: edge clearance must not be negative, got %g",
			ErrInvalidParameters, p.EdgeClearance)
	}
	if _, err := ParsePattern(string(p.Pattern)); err != nil {
		return err
	}
	return nil
}

// PlanSpec derives the pure-geometry planner inputs from the user settings.
// The center-to-boundary clearance is the via radius plus the configured
// edge clearance, so the pad copper keeps its full distance from the edge.
func (p Params) PlanSpec() PlanSpec {
	return PlanSpec{
		HSpacing:      p.HSpacing,
		VSpacing:      p.VSpacing,
		HOffset:       p.HOffset,
		VOffset:       p.VOffset,
		EdgeClearance: p.EdgeClearance + p.ViaSize/2,
		Pattern:       p.Pattern,
		Jitter:        p.Jitter,
	}
}
