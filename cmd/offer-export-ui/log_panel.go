package main

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const maxLogLines = 500

// logPanel is the rolling status log. Only touch it on the UI thread.
type logPanel struct {
	lines  []string
	label  *widget.Label
	scroll *container.Scroll
}

func newLogPanel() *logPanel {
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(label)
	scroll.SetMinSize(fyne.NewSize(0, 180))
	return &logPanel{label: label, scroll: scroll}
}

func (p *logPanel) Append(msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	p.lines = append(p.lines, msg)
	if over := len(p.lines) - maxLogLines; over > 0 {
		p.lines = p.lines[over:]
	}
	p.label.SetText(strings.Join(p.lines, "\n"))
	p.scroll.ScrollToBottom()
}

func (p *logPanel) Clear() {
	p.lines = p.lines[:0]
	p.label.SetText("")
}

func (p *logPanel) Object() fyne.CanvasObject {
	return p.scroll
}
