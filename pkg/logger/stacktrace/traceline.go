package stacktrace

import (
	"fmt"
	"runtime"
	"strings"
)

type TraceFrame struct {
	PC       uintptr
	Function string
	File     string
	Line     int
}

// TraceLines resolves the frames of s, outermost caller last.
// Consecutive runtime frames at the bottom of the trace are dropped.
func TraceLines(s StackTrace) []TraceFrame {
	frames := make([]TraceFrame, 0, len(s))
	skipping := true
	for i := len(s) - 1; i >= 0; i-- {
		pc := uintptr(s[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			frames = append(frames, TraceFrame{pc, "unknown", "", 0})
			skipping = false
			continue
		}

		name := fn.Name()
		if skipping && strings.HasPrefix(name, "runtime.") {
			continue
		}
		skipping = false

		file, line := fn.FileLine(pc)
		frames = append(frames, TraceFrame{pc, name, file, line})
	}

	// restore innermost-first order
	for l, r := 0, len(frames)-1; l < r; l, r = l+1, r-1 {
		frames[l], frames[r] = frames[r], frames[l]
	}
	return frames[:len(frames):len(frames)]
}

func (f TraceFrame) String() string {
	return fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
}
