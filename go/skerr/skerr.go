// Package skerr provides errors that remember where they were created or
// wrapped, so a single log line tells you which call sites an error passed
// through.
package skerr

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// StackTrace is a single frame of the call stack recorded by Wrap and friends.
type StackTrace struct {
	File string
	Line int
}

// String returns the frame as "file.go:123".
func (st StackTrace) String() string {
	return fmt.Sprintf("%s:%d", st.File, st.Line)
}

// ErrorWithContext is an error together with the call stack at the point it
// was first wrapped.
type ErrorWithContext struct {
	// Wrapped is the original error, possibly with an added message.
	Wrapped error
	// CallStack starts at the caller of Wrap, Wrapf or Fmt.
	CallStack []StackTrace
}

// Error implements error.
func (err *ErrorWithContext) Error() string {
	var b strings.Builder
	b.WriteString(err.Wrapped.Error())
	b.WriteString(". At")
	for _, st := range err.CallStack {
		b.WriteString(" ")
		b.WriteString(st.String())
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to see the wrapped error.
func (err *ErrorWithContext) Unwrap() error {
	return err.Wrapped
}

// CallStack returns up to height frames, skipping startAt frames above the
// caller of CallStack.
func CallStack(height, startAt int) []StackTrace {
	pcs := make([]uintptr, height)
	n := runtime.Callers(startAt+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	ret := make([]StackTrace, 0, n)
	for {
		f, more := frames.Next()
		if f.File != "" {
			ret = append(ret, StackTrace{
				File: filepath.Base(f.File),
				Line: f.Line,
			})
		}
		if !more {
			break
		}
	}
	return ret
}

const stackHeight = 5

// Wrap records the caller's location on err. If err was already wrapped the
// existing call stack is kept. Returns nil if err is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ctx *ErrorWithContext
	if errors.As(err, &ctx) {
		return err
	}
	return &ErrorWithContext{
		Wrapped:   err,
		CallStack: CallStack(stackHeight, 1),
	}
}

// Wrapf adds a message to err and records the caller's location. The message
// is prepended, so the result reads "<message>: <original error>".
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	var ctx *ErrorWithContext
	if errors.As(err, &ctx) {
		return &ErrorWithContext{
			Wrapped:   fmt.Errorf("%s: %w", msg, ctx.Wrapped),
			CallStack: ctx.CallStack,
		}
	}
	return &ErrorWithContext{
		Wrapped:   fmt.Errorf("%s: %w", msg, err),
		CallStack: CallStack(stackHeight, 1),
	}
}

// Fmt is like fmt.Errorf but records the caller's location.
func Fmt(format string, args ...interface{}) error {
	return &ErrorWithContext{
		Wrapped:   fmt.Errorf(format, args...),
		CallStack: CallStack(stackHeight, 1),
	}
}

// Unwrap returns the innermost error that is not an *ErrorWithContext.
func Unwrap(err error) error {
	for {
		ctx, ok := err.(*ErrorWithContext)
		if !ok {
			return err
		}
		err = ctx.Wrapped
	}
}
