package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"offer-export/internal/config"
)

var (
	ErrNotConnected = errors.New("session is not connected")
	ErrClosed       = errors.New("session is closed")
)

type State int

const (
	StateUnconnected State = iota
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one database connection owned by a single run.
type Session interface {
	Connect(ctx context.Context) error
	Execute(ctx context.Context, query string) (*Table, error)
	Close() error
}

// Source hands out fresh, unconnected sessions.
type Source interface {
	NewSession() Session
}

// ConnectError marks a failure to establish the session, as opposed to a
// failure of the query that runs on it.
type ConnectError struct {
	Cause error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// WithSession connects a new session from src, runs fn on it and closes it.
// Close runs exactly once on every path: connect failure, fn failure, and a
// panic inside fn.
func WithSession(ctx context.Context, src Source, fn func(Session) error) error {
	s := src.NewSession()
	defer s.Close()

	if err := s.Connect(ctx); err != nil {
		return &ConnectError{Cause: err}
	}
	return fn(s)
}

type SQLSource struct {
	Config  config.DBConfig
	Options Options
	// Open defaults to the package Open.
	Open OpenFunc
}

func NewSQLSource(cfg config.DBConfig, opt Options) *SQLSource {
	return &SQLSource{Config: cfg, Options: opt, Open: Open}
}

func (s *SQLSource) NewSession() Session {
	return NewSQLSession(s.Config, s.Options, s.Open)
}

// SQLSession moves Unconnected -> Connected -> Closed. Closed is terminal.
type SQLSession struct {
	cfg   config.DBConfig
	opt   Options
	open  OpenFunc
	db    *sql.DB
	state State
}

func NewSQLSession(cfg config.DBConfig, opt Options, open OpenFunc) *SQLSession {
	if open == nil {
		open = Open
	}
	return &SQLSession{cfg: cfg, opt: opt, open: open}
}

func (s *SQLSession) State() State {
	return s.state
}

func (s *SQLSession) Connect(ctx context.Context) error {
	switch s.state {
	case StateConnected:
		return nil
	case StateClosed:
		return ErrClosed
	}

	db, err := s.open(ctx, s.cfg, s.opt)
	if err != nil {
		return err
	}
	s.db = db
	s.state = StateConnected
	return nil
}

// Execute runs query and materializes the first result set. Calling it on a
// session that is not connected is a caller bug and returns ErrNotConnected.
func (s *SQLSession) Execute(ctx context.Context, query string) (*Table, error) {
	if s.state != StateConnected {
		return nil, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTable(rows)
}

// Close is idempotent and safe on a session that never connected.
func (s *SQLSession) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}
