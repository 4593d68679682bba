package prefs

import (
	"log"

	"via-stitcher/internal/stitch"
)

// Preference keys for the stitching settings. These match the JSON field
// names used by the board file format so exported settings stay portable.
const (
	keyViaSize       = "via_size_mm"
	keyDrillSize     = "drill_size_mm"
	keyHSpacing      = "h_spacing_mm"
	keyVSpacing      = "v_spacing_mm"
	keyHOffset       = "h_offset_mm"
	keyVOffset       = "v_offset_mm"
	keyEdgeClearance = "edge_clearance_mm"
	keyPattern       = "pattern"
	keyJitter        = "jitter"
	keyNetName       = "net_name"
	keyUseZoneNet    = "use_zone_net"
	keyGroupVias     = "group_vias"
	keyClearPlugin   = "clear_plugin_vias"
)

// StitchParams reassembles the saved stitching settings, falling back to
// the stock defaults for any key that is missing or invalid.
func (p *Prefs) StitchParams() stitch.Params {
	def := stitch.DefaultParams()
	out := stitch.Params{
		ViaSize:         p.FloatWithFallback(keyViaSize, def.ViaSize),
		DrillSize:       p.FloatWithFallback(keyDrillSize, def.DrillSize),
		HSpacing:        p.FloatWithFallback(keyHSpacing, def.HSpacing),
		VSpacing:        p.FloatWithFallback(keyVSpacing, def.VSpacing),
		HOffset:         p.FloatWithFallback(keyHOffset, def.HOffset),
		VOffset:         p.FloatWithFallback(keyVOffset, def.VOffset),
		EdgeClearance:   p.FloatWithFallback(keyEdgeClearance, def.EdgeClearance),
		Jitter:          p.Bool(keyJitter, def.Jitter),
		NetName:         p.StringWithFallback(keyNetName, def.NetName),
		UseZoneNet:      p.Bool(keyUseZoneNet, def.UseZoneNet),
		GroupVias:       p.Bool(keyGroupVias, def.GroupVias),
		ClearPluginOnly: p.Bool(keyClearPlugin, def.ClearPluginOnly),
	}

	pattern, err := stitch.ParsePattern(p.StringWithFallback(keyPattern, string(def.Pattern)))
	if err != nil {
		log.Printf("Ignoring saved pattern: %v", err)
		pattern = def.Pattern
	}
	out.Pattern = pattern

	if err := out.Validate(); err != nil {
		log.Printf("Ignoring saved stitch settings: %v", err)
		return def
	}
	return out
}

// SetStitchParams stores the stitching settings. Call Save to persist.
func (p *Prefs) SetStitchParams(params stitch.Params) {
	p.SetFloat(keyViaSize, params.ViaSize)
	p.SetFloat(keyDrillSize, params.DrillSize)
	p.SetFloat(keyHSpacing, params.HSpacing)
	p.SetFloat(keyVSpacing, params.VSpacing)
	p.SetFloat(keyHOffset, params.HOffset)
	p.SetFloat(keyVOffset, params.VOffset)
	p.SetFloat(keyEdgeClearance, params.EdgeClearance)
	p.SetString(keyPattern, string(params.Pattern))
	p.SetBool(keyJitter, params.Jitter)
	p.SetString(keyNetName, params.NetName)
	p.SetBool(keyUseZoneNet, params.UseZoneNet)
	p.SetBool(keyGroupVias, params.GroupVias)
	p.SetBool(keyClearPlugin, params.ClearPluginOnly)
}
