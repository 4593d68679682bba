// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"via-stitcher/internal/app"
	"via-stitcher/internal/stitch"
	"via-stitcher/internal/version"
	"via-stitcher/ui/canvas"
	"via-stitcher/ui/dialogs"
	"via-stitcher/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastBoard = "lastBoard"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	state      *app.State
	canvas     *canvas.BoardCanvas
	zonesPanel *panels.ZonesPanel
	statusBar  *widget.Label
	zoomLabel  *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("Via Stitcher")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastBoard()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewBoardCanvas(mw.state)

	mw.zonesPanel = panels.NewZonesPanel(mw.state)
	mw.zonesPanel.OnStitch = mw.onStitch
	mw.zonesPanel.OnClear = mw.onClear

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
	})

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas,
	)

	split := container.NewHSplit(
		mw.zonesPanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	actualBtn := widget.NewButton("1:1", mw.canvas.ZoomReset)
	stitchBtn := widget.NewButton("Stitch", mw.onStitch)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		actualBtn,
		mw.zoomLabel,
		widget.NewSeparator(),
		stitchBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Board", mw.onNewBoard),
		fyne.NewMenuItem("Open Board...", mw.onOpenBoard),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Board", mw.onSaveBoard),
		fyne.NewMenuItem("Save Board As...", mw.onSaveBoardAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Stitch Settings...", mw.onStitchSettings),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All Zones", mw.onSelectAllZones),
		fyne.NewMenuItem("Deselect All", mw.onDeselectAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Actual Size", mw.canvas.ZoomReset),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Stitch Vias", mw.onStitch),
		fyne.NewMenuItem("Clear Stitched Vias", mw.onClear),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventBoardLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Via Stitcher - " + filepath.Base(path))
			mw.updateStatus("Board loaded: " + path)
		}
	})

	mw.state.On(app.EventBoardSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Via Stitcher - " + filepath.Base(path))
			mw.updateStatus("Board saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// restoreLastBoard reopens the board from the previous session.
func (mw *MainWindow) restoreLastBoard() {
	path := mw.app.Preferences().String(prefKeyLastBoard)
	if path == "" {
		return
	}
	if err := mw.state.LoadBoard(path); err != nil {
		mw.updateStatus("Could not reopen " + filepath.Base(path))
	}
}

// Menu action handlers

func (mw *MainWindow) onNewBoard() {
	mw.state.BoardPath = ""
	mw.state.ClearSelection()
	mw.SetTitle("Via Stitcher - New Board")
	mw.updateStatus("New board")
}

func (mw *MainWindow) onOpenBoard() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadBoard(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.app.Preferences().SetString(prefKeyLastBoard, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".vsboard"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveBoard() {
	if mw.state.BoardPath == "" {
		mw.onSaveBoardAs()
		return
	}
	if err := mw.state.SaveBoard(mw.state.BoardPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveBoardAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".vsboard" {
			path += ".vsboard"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveBoard(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.app.Preferences().SetString(prefKeyLastBoard, path)
	}, mw.Window)
	fd.SetFileName("board.vsboard")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onStitchSettings() {
	dlg := dialogs.NewStitchDialog(
		mw.state.CurrentParams(),
		mw.state.Board.NetNames(),
		mw.Window,
		func(p stitch.Params) {
			if err := mw.state.SetParams(p); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.updateStatus("Stitch settings updated")
		},
	)
	dlg.Show()
}

func (mw *MainWindow) onSelectAllZones() {
	for _, z := range mw.state.Board.Zones() {
		mw.state.SetZoneSelected(z.ID, true)
	}
}

func (mw *MainWindow) onDeselectAll() {
	mw.state.ClearSelection()
}

func (mw *MainWindow) onStitch() {
	res, err := mw.state.Stitch()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus(fmt.Sprintf("Stitched %d vias (%d rejected by clearance)",
		res.Created, res.Rejected))
}

func (mw *MainWindow) onClear() {
	removed, err := mw.state.Clear()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus(fmt.Sprintf("Removed %d vias", removed))
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Via Stitcher",
		fmt.Sprintf("Via Stitcher v%s\n\n"+
			"Fills copper zones with stitching vias.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
