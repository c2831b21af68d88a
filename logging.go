package raytracer

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is the diagnostics sink shared by the packer, the app and main.
// Resource failures are reported through Errorf at the point of failure and
// the caller keeps running.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Named returns a logger tagging its lines with name under the
	// receiver's own tag. Children share the level and the writers.
	Named(name string) Logger
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// sink is shared by a logger and all of its named children.
type sink struct {
	mu   sync.Mutex
	min  Level
	out  *log.Logger
	errw *log.Logger
}

// DefaultLogger writes debug and info lines to one writer and warnings and
// errors to another, as "[name] LEVEL: message".
type DefaultLogger struct {
	name string
	s    *sink
}

func NewDefaultLogger(name string, debug bool) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, name, debug)
}

func NewLoggerTo(out, errOut io.Writer, name string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	s := &sink{
		min:  LevelInfo,
		out:  log.New(out, "", flags),
		errw: log.New(errOut, "", flags),
	}
	if debug {
		s.min = LevelDebug
	}
	return &DefaultLogger{name: name, s: s}
}

func (l *DefaultLogger) Named(name string) Logger {
	switch {
	case name == "":
		return l
	case l.name == "":
		return &DefaultLogger{name: name, s: l.s}
	}
	return &DefaultLogger{name: l.name + "/" + name, s: l.s}
}

func (l *DefaultLogger) Level() Level {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.min
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.s.mu.Lock()
	l.s.min = level
	l.s.mu.Unlock()
}

func (l *DefaultLogger) DebugEnabled() bool { return l.Level() <= LevelDebug }

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.SetLevel(LevelDebug)
	} else if l.Level() < LevelInfo {
		l.SetLevel(LevelInfo)
	}
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.name != "" {
		msg = "[" + l.name + "] " + level.String() + ": " + msg
	} else {
		msg = level.String() + ": " + msg
	}
	if level >= LevelWarn {
		l.s.errw.Print(msg)
		return
	}
	l.s.out.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool          { return false }
func (nopLogger) SetDebug(bool)               {}
func (nopLogger) Debugf(string, ...any)       {}
func (nopLogger) Infof(string, ...any)        {}
func (nopLogger) Warnf(string, ...any)        {}
func (nopLogger) Errorf(string, ...any)       {}
func (n nopLogger) Named(string) Logger       { return n }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
