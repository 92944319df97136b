// Package errors decorates errors with a source location and structured [slog.Attr] annotations.
//
// It re-exports the standard library helpers so that callers only need one errors import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

var (
	Is     = stderrors.Is
	As     = stderrors.As
	Join   = stderrors.Join
	New    = stderrors.New
	Unwrap = stderrors.Unwrap
)

// NewSentinel creates an error without source location meant to be compared with [Is].
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

type annotatedError struct {
	err    error
	msg    string
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// Wrap annotates err with msg, the caller's source location, and attrs that are logged with [SlogError].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		err:    err,
		msg:    msg,
		attrs:  attrs,
		source: callerSource(2), //nolint:mnd // skip callerSource and Wrap.
	}
}

// DecoratePanic converts a recovered panic value into an error pointing at the panicking line.
//
// It must be called from the deferred function that recovered the panic.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	var cause error
	if err, ok := excp.(error); ok {
		cause = err
	} else {
		cause = stderrors.New(fmt.Sprint(excp))
	}
	return &annotatedError{
		err:    cause,
		msg:    "panic",
		attrs:  nil,
		source: panicSource(),
	}
}

// SlogError returns an "error" group containing the message, the source location of the innermost annotation,
// and every annotation attribute found in the error tree.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	walk(err, func(ae *annotatedError) {
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		if ae.source != "" {
			source = ae.source
		}
	})

	attrs := []any{slog.String("message", err.Error())}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", attrs...)
}

// walk visits annotated errors depth first so that the deepest source wins.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // we walk the tree manually.
		visit(ae)
	}
	switch u := err.(type) { //nolint:errorlint // we walk the tree manually.
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walk(e, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}

func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return formatSource(file, line)
}

func panicSource() string {
	pcs := make([]uintptr, 32) //nolint:mnd // deep enough for any panic handler.
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and panicSource.
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return formatSource(frame.File, frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			return ""
		}
	}
}

func formatSource(file string, line int) string {
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
