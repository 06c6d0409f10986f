package orrery

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Log is the resource wrapper systems ask for: the scheduler resolves
// dependencies by concrete pointer type, so the interface rides inside.
type Log struct {
	Logger
}

type zeroLogger struct {
	mu    sync.Mutex
	debug bool
	log   zerolog.Logger
}

func NewZeroLogger(prefix string, debug bool) Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
		Level(level).
		With().
		Timestamp().
		Str("app", prefix).
		Logger()

	return &zeroLogger{debug: debug, log: zl}
}

func (l *zeroLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *zeroLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	if enabled {
		l.log = l.log.Level(zerolog.DebugLevel)
	} else {
		l.log = l.log.Level(zerolog.InfoLevel)
	}
	l.mu.Unlock()
}

func (l *zeroLogger) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }
func (l *zeroLogger) Infof(format string, args ...any)  { l.log.Info().Msgf(format, args...) }
func (l *zeroLogger) Warnf(format string, args ...any)  { l.log.Warn().Msgf(format, args...) }
func (l *zeroLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }

// LoggingModule installs the shared Log resource. A caller-provided
// Logger wins over the Prefix/Debug construction, so main can share one
// logger with code outside the app.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Logger Logger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewZeroLogger(m.Prefix, m.Debug)
	}
	cmd.AddResources(&Log{Logger: logger})
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
