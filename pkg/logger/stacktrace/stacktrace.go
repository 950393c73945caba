package stacktrace

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

// StackTrace is the type of the data for a call stack.
// This mirrors the type of the same name in [github.com/cockroachdb/errors/errbase.StackTrace].
type StackTrace errbase.StackTrace

// Capture captures a stack trace of the specified depth, skipping
// the provided number of frames. skip=0 identifies the caller of Capture.
func Capture(skip int) *StackTrace {
	const numFrames = 32
	var pcs [numFrames]uintptr
	n := runtime.Callers(2+skip, pcs[:])
	f := make([]errbase.StackFrame, n)
	for i := 0; i < len(f); i++ {
		f[i] = errbase.StackFrame(pcs[i])
	}
	return (*StackTrace)(&f)
}

// FromError returns the stack trace recorded by the innermost error in the chain
// that provides one (e.g. errors created or wrapped by [github.com/cockroachdb/errors]).
func FromError(err error) (*StackTrace, bool) {
	var (
		found StackTrace
		ok    bool
	)
	for e := err; e != nil; e = errbase.UnwrapOnce(e) {
		if x, is := e.(errbase.StackTraceProvider); is {
			found, ok = StackTrace(x.StackTrace()), true
		}
	}
	if !ok {
		return nil, false
	}
	return &found, true
}

// TraceFrames returns the trace line frames of the stack trace.
func (s StackTrace) TraceFrames() []TraceFrame {
	return TraceLines(s)
}

func (s StackTrace) TraceFramesStrings() []string {
	traceLines := s.TraceFrames()
	t := make([]string, len(traceLines))
	for i, tl := range traceLines {
		t[i] = tl.String()
	}
	return t
}

// String returns a string representation of the stack trace.
func (s StackTrace) String() string {
	var sb strings.Builder
	for i, tl := range s.TraceFrames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("[%d] %s", i+1, tl.String()))
	}
	return sb.String()
}
