// Package logger is the minimal leveled logger shared by the jobtrack
// binaries. It writes single-line RFC3339-stamped records to stdout and is
// configured once at startup via Init.
package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	level atomic.Int32
	out   = log.New(os.Stdout, "", 0)
)

func init() {
	level.Store(int32(LevelInfo))
}

// Init sets the global level from its text form (case-insensitive).
// Unknown or empty input means info.
func Init(name string) {
	level.Store(int32(ParseLevel(name)))
}

// ParseLevel maps a level name to its Level. Unrecognized names map to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "info"
	}
}

// SetOutput redirects log output. Tests use this to capture records.
func SetOutput(w io.Writer) {
	out.SetOutput(w)
}

func emit(l Level, format string, v ...interface{}) {
	if int32(l) < level.Load() {
		return
	}
	stamp := time.Now().Format(time.RFC3339)
	out.Printf(stamp+" ["+strings.ToUpper(l.String())+"] "+format, v...)
}

func Debugf(format string, v ...interface{}) { emit(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, format, v...) }

// Warn logs a plain warning message.
func Warn(msg string) { Warnf("%s", msg) }

// Fatalf logs at fatal and exits the process.
func Fatalf(format string, v ...interface{}) {
	emit(LevelFatal, format, v...)
	os.Exit(1)
}

// Current returns the active level.
func Current() Level {
	return Level(level.Load())
}
