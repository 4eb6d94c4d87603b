// Package sklogimpl holds the pluggable Logger behind package sklog. Most code
// should import sklog; only main packages and tests need to call SetLogger.
package sklogimpl

import (
	"os"
	"sync"
)

// Severity of a log line.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

var severityNames = []string{"DEBUG", "INFO", "WARNING", "ERROR", "FATAL"}

func (s Severity) String() string {
	if s < Debug || s > Fatal {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// Logger is implemented by each logging backend.
type Logger interface {
	// Log writes one line. depth is the number of stack frames between the
	// original caller and Log. If format is empty then args are joined with
	// fmt.Sprint semantics.
	Log(depth int, severity Severity, format string, args ...interface{})

	// Flush writes out anything that is buffered.
	Flush()
}

var (
	mutex  sync.RWMutex
	logger Logger

	// exit is replaced in tests so Fatal does not end the test binary.
	exit = os.Exit
)

// SetLogger replaces the current Logger.
func SetLogger(l Logger) {
	mutex.Lock()
	defer mutex.Unlock()
	logger = l
}

func current() Logger {
	mutex.RLock()
	defer mutex.RUnlock()
	return logger
}

// Log sends the message to the current Logger. Fatal messages flush the
// Logger and exit the process.
func Log(depth int, severity Severity, format string, args ...interface{}) {
	l := current()
	if l == nil {
		return
	}
	l.Log(depth+1, severity, format, args...)
	if severity == Fatal {
		l.Flush()
		exit(1)
	}
}

// Flush flushes the current Logger.
func Flush() {
	if l := current(); l != nil {
		l.Flush()
	}
}
