// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"via-stitcher/internal/app"
	"via-stitcher/internal/board"
)

// ZonesPanel lists the board's copper zones and drives zone selection.
type ZonesPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list       *widget.List
	zones      []*board.Zone
	countLabel *widget.Label
	detailCard *widget.Card

	// OnStitch and OnClear are invoked by the panel buttons.
	OnStitch func()
	OnClear  func()
}

// NewZonesPanel creates the zones panel.
func NewZonesPanel(state *app.State) *ZonesPanel {
	zp := &ZonesPanel{
		state: state,
	}
	zp.zones = state.Board.Zones()

	zp.list = widget.NewList(
		func() int {
			return len(zp.zones)
		},
		func() fyne.CanvasObject {
			return widget.NewCheck("Zone", nil)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(zp.zones) {
				return
			}
			z := zp.zones[id]
			check := obj.(*widget.Check)
			check.Text = zoneLabel(zp.state, z)
			check.OnChanged = nil
			check.SetChecked(zp.state.ZoneSelected(z.ID))
			check.OnChanged = func(checked bool) {
				zp.state.SetZoneSelected(z.ID, checked)
			}
			check.Refresh()
		},
	)

	zp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(zp.zones) {
			zp.showZoneDetail(zp.zones[id])
		}
	}

	zp.countLabel = widget.NewLabel("")
	zp.detailCard = widget.NewCard("Zone", "", widget.NewLabel("Select a zone"))

	stitchBtn := widget.NewButton("Stitch Vias", func() {
		if zp.OnStitch != nil {
			zp.OnStitch()
		}
	})
	clearBtn := widget.NewButton("Clear Vias", func() {
		if zp.OnClear != nil {
			zp.OnClear()
		}
	})

	zp.container = container.NewBorder(
		container.NewVBox(stitchBtn, clearBtn, zp.countLabel),
		zp.detailCard,
		nil, nil,
		zp.list,
	)

	// Keep the panel in sync with the document.
	state.On(app.EventBoardLoaded, func(interface{}) { zp.Refresh() })
	state.On(app.EventViasChanged, func(interface{}) { zp.updateCount() })
	state.On(app.EventSelectionChanged, func(interface{}) { zp.list.Refresh() })

	zp.updateCount()
	return zp
}

// Container returns the panel container.
func (zp *ZonesPanel) Container() fyne.CanvasObject {
	return zp.container
}

// Refresh reloads the zone list from the board document.
func (zp *ZonesPanel) Refresh() {
	zp.zones = zp.state.Board.Zones()
	zp.list.Refresh()
	zp.updateCount()
}

func (zp *ZonesPanel) updateCount() {
	zp.countLabel.SetText(fmt.Sprintf("%d zones, %d vias",
		len(zp.zones), zp.state.Board.ViaCount()))
}

func (zp *ZonesPanel) showZoneDetail(z *board.Zone) {
	bounds := z.BoundingBox()
	detail := fmt.Sprintf("Layer: %s\nNet: %s\nArea: %.2f mm²\nBounds: %.1f x %.1f mm",
		z.Layer,
		netLabel(zp.state.Board.NetName(z.NetCode)),
		z.Outline.Area(),
		bounds.Width,
		bounds.Height)
	zp.detailCard.SetContent(widget.NewLabel(detail))
	zp.detailCard.SetTitle("Zone " + z.ID)
}

func zoneLabel(state *app.State, z *board.Zone) string {
	return fmt.Sprintf("%s [%s] %s", z.ID, z.Layer, netLabel(state.Board.NetName(z.NetCode)))
}

func netLabel(name string) string {
	if name == "" {
		return "<no net>"
	}
	return name
}
