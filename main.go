// Package main provides the entry point for the Via Stitcher application.
package main

import (
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"via-stitcher/internal/app"
	"via-stitcher/internal/version"
	"via-stitcher/ui/mainwindow"
	"via-stitcher/ui/prefs"
)

const appTitle = "Via Stitcher"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.github.via-stitcher")
	fyneApp.Settings().SetTheme(&app.StitcherTheme{})

	appPrefs := prefs.Load()
	state := app.NewState(appPrefs)

	win := mainwindow.New(fyneApp, state)
	win.Resize(fyne.NewSize(1100, 750))

	// Open a board passed on the command line.
	if len(os.Args) > 1 {
		boardPath := os.Args[1]
		if err := state.LoadBoard(boardPath); err != nil {
			log.Printf("Failed to load board %s: %v", boardPath, err)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled during development.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm(
			"New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			},
			win,
		)
	})

	reloader.Start()
}
