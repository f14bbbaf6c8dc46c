package main

import (
	"io"
	"sync"

	"offer-export/internal/platform/desktop"
)

// logWatcher sits behind the standard logger, which is where Fyne reports
// driver errors (fyne.LogError). Lines pass through to dst unchanged. The
// first line saying no OpenGL context could be created triggers onHit on its
// own goroutine, since the driver may still hold the UI thread.
type logWatcher struct {
	dst   io.Writer
	once  sync.Once
	onHit func()
}

func newLogWatcher(dst io.Writer, onHit func()) io.Writer {
	if dst == nil {
		dst = io.Discard
	}
	return &logWatcher{dst: dst, onHit: onHit}
}

func (w *logWatcher) Write(p []byte) (int, error) {
	if w.onHit != nil && desktop.IsOpenGLFailureLog(p) {
		w.once.Do(func() {
			go w.onHit()
		})
	}
	return w.dst.Write(p)
}
