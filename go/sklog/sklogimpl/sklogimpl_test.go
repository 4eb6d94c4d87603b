package sklogimpl

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type line struct {
	severity Severity
	msg      string
}

type captureLogger struct {
	lines   []line
	flushes int
}

func (c *captureLogger) Log(_ int, severity Severity, format string, args ...interface{}) {
	msg := fmt.Sprint(args...)
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	c.lines = append(c.lines, line{severity: severity, msg: msg})
}

func (c *captureLogger) Flush() {
	c.flushes++
}

func TestLog_SendsToCurrentLogger(t *testing.T) {
	c := &captureLogger{}
	SetLogger(c)
	defer SetLogger(nil)

	Log(0, Info, "rule %d", 3)
	Log(0, Warning, "", "no ", "format")

	assert.Equal(t, []line{
		{Info, "rule 3"},
		{Warning, "no format"},
	}, c.lines)
}

func TestLog_Fatal_FlushesAndExits(t *testing.T) {
	c := &captureLogger{}
	SetLogger(c)
	defer SetLogger(nil)
	code := -1
	exit = func(i int) { code = i }
	defer func() { exit = os.Exit }()

	Log(0, Fatal, "boom")

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, c.flushes)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "WARNING", Warning.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}
