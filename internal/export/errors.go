package export

import (
	"errors"
	"fmt"

	"offer-export/internal/db"
	"offer-export/internal/query"
)

var (
	// ErrNoData ends a run whose query returned no rows. It is an outcome,
	// not a database failure.
	ErrNoData = errors.New("query returned no rows")

	ErrCancelled = errors.New("export cancelled")
	ErrBusy      = errors.New("an export is already running")
)

type QueryError struct {
	Path  string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("load query %s: %v", e.Path, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

type ExecError struct {
	Cause error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execute query: %v", e.Cause)
}

func (e *ExecError) Unwrap() error {
	return e.Cause
}

type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write spreadsheet %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Describe turns a run error into a message for the end user. Low-level
// causes stay in the log.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		qe *QueryError
		ce *db.ConnectError
		ee *ExecError
		we *WriteError
	)

	switch {
	case errors.As(err, &qe):
		if errors.Is(qe, query.ErrNotFound) {
			return fmt.Sprintf("Query file %s not found.", qe.Path)
		}
		return fmt.Sprintf("Could not read query file %s.", qe.Path)
	case errors.As(err, &ce):
		return "Could not connect to the database.\nCheck the credentials in the .env file."
	case errors.As(err, &ee):
		return "The query failed to run on the database."
	case errors.Is(err, ErrNoData):
		return "The query returned no data."
	case errors.As(err, &we):
		return fmt.Sprintf("Could not generate the spreadsheet %s.", we.Path)
	case errors.Is(err, ErrCancelled):
		return "Export cancelled by the user."
	case errors.Is(err, ErrBusy):
		return "An export is already running."
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
