// Package export runs the query-to-spreadsheet sequence and reports its
// outcome to the command line and desktop front ends.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"offer-export/internal/db"
	"offer-export/internal/logger"
	"offer-export/internal/query"

	"github.com/google/uuid"
)

// TableWriter persists a result table at path.
type TableWriter interface {
	Write(t *db.Table, path string) error
}

type Runner struct {
	QueryFile string
	// OutputFile is used when RunOptions.Destination is nil.
	OutputFile string
	Source     db.Source
	Writer     TableWriter
	Log        logger.LoggerService
	Now        func() time.Time
}

type RunOptions struct {
	// Destination is asked for the output path once the data is in hand.
	// Returning ErrCancelled aborts the run quietly.
	Destination func(ctx context.Context) (string, error)
	Progress    func(msg string)
}

type Result struct {
	Path       string
	Rows       int
	Columns    int
	FinishedAt time.Time
}

// Run loads the query, executes it on a fresh session, releases the session
// and writes the table. Every failure is terminal; nothing is retried.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (Result, error) {
	log := r.logger().With("run_id", uuid.NewString())

	progress := func(msg string) {
		log.Info(msg)
		if opts.Progress != nil {
			opts.Progress(msg)
		}
	}

	progress("Starting extraction...")
	progress("Loading SQL query...")
	q, err := query.Load(r.QueryFile)
	if err != nil {
		qe := &QueryError{Path: r.QueryFile, Cause: err}
		log.Error("load query failed", qe)
		return Result{}, qe
	}

	progress("Connecting to the database...")
	var tbl *db.Table
	err = db.WithSession(ctx, r.Source, func(s db.Session) error {
		progress("Connected.")
		progress("Querying data...")

		t, err := s.Execute(ctx, q)
		if err != nil {
			return &ExecError{Cause: err}
		}
		tbl = t
		return nil
	})
	if err != nil {
		log.Error("query run failed", err)
		return Result{}, err
	}

	if tbl.Empty() {
		log.Warn("query returned no rows")
		return Result{}, ErrNoData
	}
	progress(fmt.Sprintf("%d records found.", tbl.Len()))

	path, err := r.destination(ctx, opts)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			log.Warn("export cancelled before save")
		} else {
			log.Error("resolve destination failed", err)
		}
		return Result{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, &WriteError{Path: path, Cause: err}
	}

	progress("Saving to " + abs)
	if err := r.Writer.Write(tbl, abs); err != nil {
		we := &WriteError{Path: abs, Cause: err}
		log.Error("write spreadsheet failed", we)
		return Result{}, we
	}

	log.Success("spreadsheet written: " + abs)
	return Result{
		Path:       abs,
		Rows:       tbl.Len(),
		Columns:    len(tbl.Columns),
		FinishedAt: r.now(),
	}, nil
}

func (r *Runner) destination(ctx context.Context, opts RunOptions) (string, error) {
	if opts.Destination == nil {
		return r.OutputFile, nil
	}
	return opts.Destination(ctx)
}

func (r *Runner) logger() logger.LoggerService {
	if r.Log == nil {
		return logger.NewNop()
	}
	return r.Log
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
