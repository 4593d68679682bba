// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"strconv"

	"via-stitcher/internal/stitch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// StitchDialog provides a property sheet for editing the stitching settings.
type StitchDialog struct {
	params stitch.Params
	nets   []string
	window fyne.Window

	// Via geometry
	viaSizeEntry   *widget.Entry
	drillSizeEntry *widget.Entry

	// Placement
	hSpacingEntry  *widget.Entry
	vSpacingEntry  *widget.Entry
	hOffsetEntry   *widget.Entry
	vOffsetEntry   *widget.Entry
	clearanceEntry *widget.Entry
	patternSelect  *widget.Select
	jitterCheck    *widget.Check

	// Net and grouping
	netSelect       *widget.Select
	useZoneNetCheck *widget.Check
	groupCheck      *widget.Check
	clearPluginOnly *widget.Check

	// Callback
	onApply func(stitch.Params)
}

// NewStitchDialog creates a stitching settings dialog seeded with the
// current settings. nets lists the board's net names for the net selector.
func NewStitchDialog(params stitch.Params, nets []string, window fyne.Window, onApply func(stitch.Params)) *StitchDialog {
	return &StitchDialog{
		params:  params,
		nets:    nets,
		window:  window,
		onApply: onApply,
	}
}

// Show displays the dialog.
func (d *StitchDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Via Stitching",
		"Apply",
		"Cancel",
		content,
		func(apply bool) {
			if !apply {
				return
			}
			params, err := d.readParams()
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onApply != nil {
				d.onApply(params)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 620))
	dlg.Show()
}

func (d *StitchDialog) createContent() fyne.CanvasObject {
	// Via geometry section
	d.viaSizeEntry = widget.NewEntry()
	d.viaSizeEntry.SetText(fmt.Sprintf("%.3f", d.params.ViaSize))

	d.drillSizeEntry = widget.NewEntry()
	d.drillSizeEntry.SetText(fmt.Sprintf("%.3f", d.params.DrillSize))

	viaForm := widget.NewForm(
		widget.NewFormItem("Via size (mm)", d.viaSizeEntry),
		widget.NewFormItem("Drill size (mm)", d.drillSizeEntry),
	)

	// Placement section
	d.hSpacingEntry = widget.NewEntry()
	d.hSpacingEntry.SetText(fmt.Sprintf("%.3f", d.params.HSpacing))
	d.vSpacingEntry = widget.NewEntry()
	d.vSpacingEntry.SetText(fmt.Sprintf("%.3f", d.params.VSpacing))
	d.hOffsetEntry = widget.NewEntry()
	d.hOffsetEntry.SetText(fmt.Sprintf("%.3f", d.params.HOffset))
	d.vOffsetEntry = widget.NewEntry()
	d.vOffsetEntry.SetText(fmt.Sprintf("%.3f", d.params.VOffset))
	d.clearanceEntry = widget.NewEntry()
	d.clearanceEntry.SetText(fmt.Sprintf("%.3f", d.params.EdgeClearance))

	patterns := stitch.Patterns()
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = string(p)
	}
	d.patternSelect = widget.NewSelect(names, nil)
	d.patternSelect.SetSelected(string(d.params.Pattern))

	d.jitterCheck = widget.NewCheck("Randomize positions", nil)
	d.jitterCheck.SetChecked(d.params.Jitter)

	placementForm := widget.NewForm(
		widget.NewFormItem("Horizontal spacing (mm)", d.hSpacingEntry),
		widget.NewFormItem("Vertical spacing (mm)", d.vSpacingEntry),
		widget.NewFormItem("Horizontal offset (mm)", d.hOffsetEntry),
		widget.NewFormItem("Vertical offset (mm)", d.vOffsetEntry),
		widget.NewFormItem("Edge clearance (mm)", d.clearanceEntry),
		widget.NewFormItem("Pattern", d.patternSelect),
		widget.NewFormItem("", d.jitterCheck),
	)

	// Net section
	d.netSelect = widget.NewSelect(d.nets, nil)
	if d.params.NetName != "" {
		d.netSelect.SetSelected(d.params.NetName)
	}
	d.useZoneNetCheck = widget.NewCheck("Use each zone's own net", func(checked bool) {
		if checked {
			d.netSelect.Disable()
		} else {
			d.netSelect.Enable()
		}
	})
	d.useZoneNetCheck.SetChecked(d.params.UseZoneNet)
	if d.params.UseZoneNet {
		d.netSelect.Disable()
	}

	d.groupCheck = widget.NewCheck("Group created vias", nil)
	d.groupCheck.SetChecked(d.params.GroupVias)
	d.clearPluginOnly = widget.NewCheck("Clear removes stitched vias only", nil)
	d.clearPluginOnly.SetChecked(d.params.ClearPluginOnly)

	netForm := container.NewVBox(
		widget.NewForm(widget.NewFormItem("Net", d.netSelect)),
		d.useZoneNetCheck,
		d.groupCheck,
		d.clearPluginOnly,
	)

	return container.NewVBox(
		widget.NewCard("Via", "", viaForm),
		widget.NewCard("Placement", "", placementForm),
		widget.NewCard("Net", "", netForm),
	)
}

// readParams parses the entry fields back into settings, validating the
// result before handing it to the caller.
func (d *StitchDialog) readParams() (stitch.Params, error) {
	p := d.params

	fields := []struct {
		name  string
		entry *widget.Entry
		dst   *float64
	}{
		{"via size", d.viaSizeEntry, &p.ViaSize},
		{"drill size", d.drillSizeEntry, &p.DrillSize},
		{"horizontal spacing", d.hSpacingEntry, &p.HSpacing},
		{"vertical spacing", d.vSpacingEntry, &p.VSpacing},
		{"horizontal offset", d.hOffsetEntry, &p.HOffset},
		{"vertical offset", d.vOffsetEntry, &p.VOffset},
		{"edge clearance", d.clearanceEntry, &p.EdgeClearance},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.entry.Text, 64)
		if err != nil {
			return p, fmt.Errorf("invalid %s: %q", f.name, f.entry.Text)
		}
		*f.dst = v
	}

	p.Pattern = stitch.Pattern(d.patternSelect.Selected)
	p.Jitter = d.jitterCheck.Checked
	p.NetName = d.netSelect.Selected
	p.UseZoneNet = d.useZoneNetCheck.Checked
	p.GroupVias = d.groupCheck.Checked
	p.ClearPluginOnly = d.clearPluginOnly.Checked

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
