package stitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, PatternGrid, p.Pattern)
	assert.Equal(t, "GND", p.NetName)
	assert.True(t, p.GroupVias)
	assert.True(t, p.ClearPluginOnly)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero via size", func(p *Params) { p.ViaSize = 0 }},
		{"zero drill", func(p *Params) { p.DrillSize = 0 }},
		{"drill not smaller than via", func(p *Params) { p.DrillSize = p.ViaSize }},
		{"drill larger than via", func(p *Params) { p.DrillSize = p.ViaSize * 2 }},
		{"zero h spacing", func(p *Params) { p.HSpacing = 0 }},
		{"negative v spacing", func(p *Params) { p.VSpacing = -1 }},
		{"negative clearance", func(p *Params) { p.EdgeClearance = -0.1 }},
		{"unknown pattern", func(p *Params) { p.Pattern = "diamond" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParameters)
		})
	}
}

func TestParsePattern(t *testing.T) {
	for _, pat := range Patterns() {
		got, err := ParsePattern(string(pat))
		require.NoError(t, err)
		assert.Equal(t, pat, got)
	}
	_, err := ParsePattern("hexagon")
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestPlanSpecClearance(t *testing.T) {
	p := DefaultParams()
	p.ViaSize = 0.6
	p.EdgeClearance = 0.5
	spec := p.PlanSpec()
	// Planner clearance is center-to-boundary: edge clearance plus radius.
	assert.InDelta(t, 0.8, spec.EdgeClearance, 1e-9)
}
