package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"offer-export/internal/db"
	"offer-export/internal/runmeta"
	"offer-export/internal/xlsx"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func newInteractive(t *testing.T, s *fakeSession, w TableWriter) (*Interactive, *runmeta.MemoryStore) {
	t.Helper()
	store := &runmeta.MemoryStore{}
	r := &Runner{
		QueryFile: writeQuery(t, t.TempDir()),
		Source:    &fakeSource{session: s},
		Writer:    w,
	}
	return NewInteractive(r, store, func() time.Time { return fixedNow }), store
}

// drain answers the save prompt with answer and returns every event.
func drain(t *testing.T, in *Interactive, j *Job, answer func(*Job)) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-j.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
			if ev.Kind == EventSavePrompt {
				answer(j)
			}
			if ev.Kind.Final() && in.Busy() {
				t.Fatalf("interactive still busy at final event")
			}
		case <-timeout:
			t.Fatalf("job did not finish")
		}
	}
}

func lastEvent(t *testing.T, events []Event) Event {
	t.Helper()
	if len(events) == 0 {
		t.Fatalf("no events")
	}
	return events[len(events)-1]
}

func TestInteractiveSuccess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "offers.xlsx")
	in, store := newInteractive(t, &fakeSession{table: oneRow()}, xlsx.Writer{Options: xlsx.DefaultOptions()})

	if got := runmeta.Describe(in.LastRun()); got != "Never" {
		t.Fatalf("expected no last run yet, got %q", got)
	}

	j, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	events := drain(t, in, j, func(j *Job) { j.ProvidePath(out) })

	final := lastEvent(t, events)
	if final.Kind != EventDone {
		t.Fatalf("expected done, got %s: %s", final.Kind, final.Message)
	}
	if final.Result.Path != out {
		t.Fatalf("expected path %s, got %s", out, final.Result.Path)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	rec, err := store.Load()
	if err != nil {
		t.Fatalf("expected metadata saved: %v", err)
	}
	if !rec.LastExtraction.Equal(fixedNow) {
		t.Fatalf("expected %v, got %v", fixedNow, rec.LastExtraction)
	}
	if got, ok := in.LastRun(); !ok || !got.Equal(fixedNow) {
		t.Fatalf("unexpected last run %v %v", got, ok)
	}
	if got, want := runmeta.Describe(in.LastRun()), fixedNow.Local().Format(runmeta.DisplayLayout); got != want {
		t.Fatalf("expected label %q, got %q", want, got)
	}
}

func TestInteractiveCancelPrompt(t *testing.T) {
	s := &fakeSession{table: oneRow()}
	w := &recordingWriter{}
	in, store := newInteractive(t, s, w)

	j, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	events := drain(t, in, j, func(j *Job) { j.CancelPrompt() })

	final := lastEvent(t, events)
	if final.Kind != EventCancelled {
		t.Fatalf("expected cancelled, got %s", final.Kind)
	}
	if w.calls != 0 {
		t.Fatalf("writer must not be called")
	}
	if _, err := store.Load(); !errors.Is(err, runmeta.ErrNotFound) {
		t.Fatalf("metadata must not be saved, got %v", err)
	}
	if s.closeCount() != 1 {
		t.Fatalf("expected session closed once, got %d", s.closeCount())
	}
	if in.Busy() {
		t.Fatalf("expected idle after cancel")
	}
}

func TestInteractiveEmptyPathCancels(t *testing.T) {
	in, _ := newInteractive(t, &fakeSession{table: oneRow()}, &recordingWriter{})

	j, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	events := drain(t, in, j, func(j *Job) { j.ProvidePath("") })
	if final := lastEvent(t, events); final.Kind != EventCancelled {
		t.Fatalf("expected cancelled, got %s", final.Kind)
	}
}

func TestInteractiveFailures(t *testing.T) {
	tests := []struct {
		name    string
		session *fakeSession
		writer  *recordingWriter
		want    EventKind
	}{
		{"no data", &fakeSession{table: &db.Table{Columns: []string{"n"}}}, &recordingWriter{}, EventNoData},
		{"connect", &fakeSession{connectErr: errors.New("refused")}, &recordingWriter{}, EventFailed},
		{"write", &fakeSession{table: oneRow()}, &recordingWriter{err: errors.New("disk full")}, EventFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, store := newInteractive(t, tt.session, tt.writer)
			j, err := in.Start(context.Background())
			if err != nil {
				t.Fatalf("start: %v", err)
			}
			out := filepath.Join(t.TempDir(), "out.xlsx")
			events := drain(t, in, j, func(j *Job) { j.ProvidePath(out) })

			final := lastEvent(t, events)
			if final.Kind != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, final.Kind)
			}
			if final.Message == "" || final.Err == nil {
				t.Fatalf("expected message and error, got %+v", final)
			}
			if _, err := store.Load(); !errors.Is(err, runmeta.ErrNotFound) {
				t.Fatalf("metadata must not be saved on failure")
			}
		})
	}
}

func TestInteractiveBusy(t *testing.T) {
	in, _ := newInteractive(t, &fakeSession{table: oneRow()}, &recordingWriter{})

	j, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Wait for the prompt so the first job is certainly in flight.
	for ev := range j.Events() {
		if ev.Kind == EventSavePrompt {
			break
		}
	}

	if _, err := in.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	j.CancelPrompt()
	for range j.Events() {
	}

	j2, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("expected idle after first job, got %v", err)
	}
	j2.CancelPrompt()
	for range j2.Events() {
	}
}

func TestInteractiveContextCancelWhilePrompting(t *testing.T) {
	in, _ := newInteractive(t, &fakeSession{table: oneRow()}, &recordingWriter{})

	ctx, cancel := context.WithCancel(context.Background())
	j, err := in.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	events := drain(t, in, j, func(*Job) { cancel() })

	final := lastEvent(t, events)
	if final.Kind != EventCancelled {
		t.Fatalf("expected cancelled, got %s", final.Kind)
	}
	if !errors.Is(final.Err, context.Canceled) {
		t.Fatalf("expected context cause, got %v", final.Err)
	}
}

func TestInteractiveRecoversFromPanic(t *testing.T) {
	in, store := newInteractive(t, &fakeSession{table: oneRow()}, nil)

	j, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.xlsx")
	events := drain(t, in, j, func(j *Job) { j.ProvidePath(out) })

	final := lastEvent(t, events)
	if final.Kind != EventFailed {
		t.Fatalf("expected failed, got %s", final.Kind)
	}
	if final.Err == nil || !strings.Contains(final.Err.Error(), "panicked") {
		t.Fatalf("expected panic error, got %v", final.Err)
	}
	if in.Busy() {
		t.Fatalf("expected idle after panic")
	}
	if _, err := store.Load(); !errors.Is(err, runmeta.ErrNotFound) {
		t.Fatalf("metadata must not be saved after panic")
	}

	next, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("expected a new job after panic, got %v", err)
	}
	drain(t, in, next, func(j *Job) { j.CancelPrompt() })
}

func TestJobPathIsPerJob(t *testing.T) {
	in, _ := newInteractive(t, &fakeSession{table: oneRow()}, &recordingWriter{})
	dir := t.TempDir()

	first, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	a := filepath.Join(dir, "a.xlsx")
	drain(t, in, first, func(j *Job) {
		j.ProvidePath(a)
		j.ProvidePath(filepath.Join(dir, "ignored.xlsx"))
	})
	if got := first.Path(); got != a {
		t.Fatalf("expected first job path %s, got %q", a, got)
	}

	second, err := in.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := second.Path(); got != "" {
		t.Fatalf("new job must start without a path, got %q", got)
	}
	drain(t, in, second, func(j *Job) { j.CancelPrompt() })
	if got := second.Path(); got != "" {
		t.Fatalf("cancelled job must have no path, got %q", got)
	}
	if got := first.Path(); got != a {
		t.Fatalf("first job path changed to %q", got)
	}
}
