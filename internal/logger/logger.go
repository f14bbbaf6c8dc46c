package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"offer-export/internal/config"
	"offer-export/internal/platform/paths"

	"github.com/rs/zerolog"
)

type LoggerService interface {
	Info(msg string)
	Error(msg string, err error)
	Warn(msg string)
	Success(msg string)
	With(key, value string) LoggerService
	Close() error
}

type service struct {
	logger zerolog.Logger
	file   *os.File
}

// New logs JSON lines to the app log file. In debug mode the same events are
// echoed to stderr in console format.
func New(cfg config.Config) (LoggerService, error) {
	logPath, err := paths.LoggerFilePath()
	if err != nil {
		return nil, err
	}
	return NewFile(logPath, cfg.Debug)
}

func NewFile(logPath string, debug bool) (LoggerService, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	var out io.Writer = f
	level := zerolog.InfoLevel
	if debug {
		out = zerolog.MultiLevelWriter(f, consoleWriter(os.Stderr))
		level = zerolog.DebugLevel
	}

	return &service{
		logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
		file:   f,
	}, nil
}

func NewStderr() LoggerService {
	return NewWriter(consoleWriter(os.Stderr))
}

func NewWriter(w io.Writer) LoggerService {
	return &service{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

func NewNop() LoggerService {
	return &service{logger: zerolog.Nop()}
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
}

func (s *service) Info(msg string) {
	s.write(zerolog.InfoLevel, "", msg, nil)
}

func (s *service) Error(msg string, err error) {
	s.write(zerolog.ErrorLevel, "", msg, err)
}

func (s *service) Warn(msg string) {
	s.write(zerolog.WarnLevel, "", msg, nil)
}

func (s *service) Success(msg string) {
	s.write(zerolog.InfoLevel, "ok", msg, nil)
}

// With returns a child logger that adds key=value to every event. The child
// shares the parent's file, so only the parent should be closed.
func (s *service) With(key, value string) LoggerService {
	return &service{logger: s.logger.With().Str(key, value).Logger()}
}

func (s *service) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func (s *service) write(level zerolog.Level, status, msg string, err error) {
	msg = strings.TrimSpace(msg)
	if msg == "" && err == nil {
		return
	}
	ev := s.logger.WithLevel(level)
	if status != "" {
		ev = ev.Str("status", status)
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}
