// Package logger provides the leveled, component-tagged logging used
// throughout construction (SVO/BVH build) and serving. The hot ray-march
// loop (internal/svo's Trace) never calls into this package — it is
// allocation-free by contract and logging would violate that.
package logger

import (
	"fmt"
	"log"
	"os"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, component-prefixed lines to an underlying
// *log.Logger.
type Logger struct {
	level     Level
	component string
	out       *log.Logger
}

var defaultLogger = New(INFO, "")

// New creates a logger at the given level. component, if non-empty, is
// prefixed to every line (see WithComponent).
func New(level Level, component string) *Logger {
	return &Logger{
		level:     level,
		component: component,
		out:       log.New(os.Stderr, "", log.Ldate|log.Ltime),
	}
}

// SetLevel adjusts the package-default logger's level, e.g. from a
// --verbose CLI flag.
func SetLevel(level Level) {
	defaultLogger.level = level
}

// WithComponent returns a logger that prefixes every line with name,
// e.g. logger.WithComponent("svo").Info("built %d nodes", n) logs
// "[INFO] svo: built %d nodes". Used by the build/render/serve commands
// to tag output per subsystem without threading a *Logger through every
// call.
func WithComponent(name string) *Logger {
	return &Logger{level: defaultLogger.level, component: name, out: defaultLogger.out}
}

func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }

func (l *Logger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		l.out.Printf("[%s] %s: %s", level, l.component, msg)
		return
	}
	l.out.Printf("[%s] %s", level, msg)
}
