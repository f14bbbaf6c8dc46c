package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"offer-export/internal/runmeta"
)

type EventKind int

const (
	EventLog EventKind = iota
	// EventSavePrompt asks the front end for a path; answer with
	// Job.ProvidePath or Job.CancelPrompt.
	EventSavePrompt
	EventDone
	EventNoData
	EventCancelled
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventLog:
		return "log"
	case EventSavePrompt:
		return "save_prompt"
	case EventDone:
		return "done"
	case EventNoData:
		return "no_data"
	case EventCancelled:
		return "cancelled"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Final reports whether k ends a job.
func (k EventKind) Final() bool {
	return k >= EventDone
}

type Event struct {
	Kind    EventKind
	Message string
	Result  Result
	Err     error
}

const eventBuffer = 16

type pathReply struct {
	path   string
	cancel bool
}

// Job is one export running on a background goroutine.
type Job struct {
	events chan Event
	reply  chan pathReply

	mu   sync.Mutex
	path string
}

// Events yields progress and exactly one final event, then closes.
func (j *Job) Events() <-chan Event {
	return j.events
}

// ProvidePath answers the save prompt. An empty path counts as a cancel.
// Only the first answer is taken.
func (j *Job) ProvidePath(p string) {
	if p == "" {
		j.CancelPrompt()
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.answer(pathReply{path: p}) {
		j.path = p
	}
}

func (j *Job) CancelPrompt() {
	j.answer(pathReply{cancel: true})
}

// Path is the save path this job accepted, or "" if it got none.
func (j *Job) Path() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.path
}

func (j *Job) answer(r pathReply) bool {
	select {
	case j.reply <- r:
		return true
	default:
		return false
	}
}

// Interactive runs at most one job at a time and records the time of each
// successful export in its store.
type Interactive struct {
	runner *Runner
	store  runmeta.Store
	now    func() time.Time

	mu   sync.Mutex
	busy bool
}

func NewInteractive(r *Runner, store runmeta.Store, now func() time.Time) *Interactive {
	if now == nil {
		now = time.Now
	}
	return &Interactive{runner: r, store: store, now: now}
}

func (in *Interactive) Busy() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.busy
}

// LastRun returns when the last successful export finished, if known.
func (in *Interactive) LastRun() (time.Time, bool) {
	rec, err := in.store.Load()
	if err != nil {
		if !errors.Is(err, runmeta.ErrNotFound) {
			in.runner.logger().Warn("read last extraction: " + err.Error())
		}
		return time.Time{}, false
	}
	return rec.LastExtraction, true
}

// Start launches a job, or returns ErrBusy while another is in flight. The
// caller must drain Events until it closes.
func (in *Interactive) Start(ctx context.Context) (*Job, error) {
	in.mu.Lock()
	if in.busy {
		in.mu.Unlock()
		return nil, ErrBusy
	}
	in.busy = true
	in.mu.Unlock()

	j := &Job{
		events: make(chan Event, eventBuffer),
		reply:  make(chan pathReply, 1),
	}
	go in.run(ctx, j)
	return j, nil
}

func (in *Interactive) run(ctx context.Context, j *Job) {
	defer close(j.events)

	emit := func(e Event) { j.events <- e }

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := fmt.Errorf("export panicked: %v", r)
		in.runner.logger().Error("export aborted", err)
		in.setIdle()
		emit(Event{Kind: EventFailed, Message: Describe(err), Err: err})
	}()

	res, err := in.runner.Run(ctx, RunOptions{
		Progress: func(msg string) {
			emit(Event{Kind: EventLog, Message: msg})
		},
		Destination: func(ctx context.Context) (string, error) {
			emit(Event{Kind: EventSavePrompt, Message: "Waiting for save location..."})
			select {
			case r := <-j.reply:
				if r.cancel {
					return "", ErrCancelled
				}
				return r.path, nil
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
			}
		},
	})

	if err == nil {
		emit(Event{Kind: EventLog, Message: "Spreadsheet generated successfully!"})
		if serr := in.store.Save(runmeta.Record{LastExtraction: in.now()}); serr != nil {
			in.runner.logger().Error("save last extraction failed", serr)
			emit(Event{Kind: EventLog, Message: "Could not record the extraction time."})
		}
	}

	final := outcome(res, err)
	switch final.Kind {
	case EventNoData, EventFailed:
		emit(Event{Kind: EventLog, Message: final.Message})
	case EventCancelled:
		emit(Event{Kind: EventLog, Message: "Operation cancelled by the user."})
	}

	in.setIdle()
	emit(final)
}

func (in *Interactive) setIdle() {
	in.mu.Lock()
	in.busy = false
	in.mu.Unlock()
}

func outcome(res Result, err error) Event {
	switch {
	case err == nil:
		return Event{
			Kind:    EventDone,
			Message: "Spreadsheet generated successfully!\n\n" + res.Path,
			Result:  res,
		}
	case errors.Is(err, ErrCancelled):
		return Event{Kind: EventCancelled, Message: Describe(err), Err: err}
	case errors.Is(err, ErrNoData):
		return Event{Kind: EventNoData, Message: Describe(err), Err: err}
	default:
		return Event{Kind: EventFailed, Message: Describe(err), Err: err}
	}
}
