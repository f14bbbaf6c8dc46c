package main

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	"offer-export/internal/app"
	"offer-export/internal/export"
	"offer-export/internal/platform/desktop"
	"offer-export/internal/runmeta"
	"offer-export/internal/xlsx"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Flash Offer Export"

func main() {
	log.SetOutput(newLogWatcher(os.Stderr, handleOpenGLFailure))

	if err := desktop.StartupGuard(); err != nil {
		desktop.Alert(appTitle, "The export window needs an interactive desktop session ("+err.Error()+"). Run "+cliName+" instead.")
		os.Exit(1)
	}

	a, err := app.Load()
	if err != nil {
		desktop.Alert(appTitle, "Failed to load configuration: "+err.Error())
		os.Exit(1)
	}
	defer a.Close()

	exporter, err := a.Interactive()
	if err != nil {
		desktop.Alert(appTitle, "Failed to open run history: "+err.Error())
		os.Exit(1)
	}

	fa := fyneapp.NewWithID("offer-export.ui")
	w := fa.NewWindow(appTitle)

	title := widget.NewLabelWithStyle("Flash Offer Spreadsheet", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("Download the current offers as an Excel spreadsheet.", fyne.TextAlignCenter, fyne.TextStyle{})

	lastRun := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	refreshLastRun := func() {
		lastRun.SetText("Last extraction: " + runmeta.Describe(exporter.LastRun()))
	}
	refreshLastRun()

	status := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	progress := widget.NewProgressBarInfinite()
	progress.Stop()
	progress.Hide()

	logs := newLogPanel()

	var downloadBtn *widget.Button

	setBusy := func() {
		downloadBtn.Disable()
		status.SetText("Processing...")
		progress.Show()
		progress.Start()
	}
	setIdle := func() {
		progress.Stop()
		progress.Hide()
		status.SetText("")
		downloadBtn.Enable()
	}

	askPath := func(job *export.Job) {
		d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				logs.Append("Save dialog error: " + err.Error())
				job.CancelPrompt()
				return
			}
			if wc == nil {
				job.CancelPrompt()
				return
			}

			created := wc.URI().Path()
			_ = wc.Close()

			p := xlsx.EnsureExtension(created)
			if p != created {
				_ = xlsx.RemoveIfEmpty(created)
			}
			job.ProvidePath(p)
		}, w)
		d.SetFileName(filepath.Base(a.Config.Export.OutputFile))
		d.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx"}))
		d.Resize(fyne.NewSize(720, 480))
		d.Show()
	}

	handle := func(job *export.Job, ev export.Event) {
		switch ev.Kind {
		case export.EventLog:
			logs.Append(ev.Message)
		case export.EventSavePrompt:
			logs.Append(ev.Message)
			askPath(job)
		case export.EventDone:
			setIdle()
			refreshLastRun()
			dialog.ShowInformation("Success", ev.Message, w)
		case export.EventCancelled:
			setIdle()
		case export.EventNoData, export.EventFailed:
			setIdle()
			// The save dialog leaves an empty file behind when the write fails.
			_ = xlsx.RemoveIfEmpty(job.Path())
			dialog.ShowError(errors.New(ev.Message), w)
		}
	}

	downloadBtn = widget.NewButtonWithIcon("Download spreadsheet", theme.DownloadIcon(), func() {
		job, err := exporter.Start(context.Background())
		if err != nil {
			dialog.ShowError(errors.New(export.Describe(err)), w)
			return
		}
		logs.Clear()
		setBusy()

		go func() {
			for ev := range job.Events() {
				fyne.Do(func() { handle(job, ev) })
			}
		}()
	})
	downloadBtn.Importance = widget.HighImportance

	header := container.NewVBox(
		title,
		subtitle,
		widget.NewSeparator(),
		downloadBtn,
		progress,
		status,
		lastRun,
		widget.NewSeparator(),
		widget.NewLabel("Log"),
	)

	w.SetContent(container.NewBorder(header, nil, nil, nil, logs.Object()))
	w.Resize(fyne.NewSize(560, 560))
	w.SetFixedSize(false)
	w.ShowAndRun()
}
