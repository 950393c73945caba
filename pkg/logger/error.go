package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gaze-network/bridge-network/pkg/logger/stacktrace"
)

// middlewareErrorStackTrace appends the verbose form and the recorded stack trace
// of every logged error attribute.
func middlewareErrorStackTrace() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			var extra []slog.Attr
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key != ErrorKey && attr.Key != "err" {
					return true
				}
				err, ok := attr.Value.Any().(error)
				if !ok || err == nil {
					return true
				}
				extra = append(extra, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
				if st, ok := stacktrace.FromError(err); ok {
					extra = append(extra, slog.Any(ErrorStackTraceKey, st.TraceFramesStrings()))
				}
				return false
			})
			rec.AddAttrs(extra...)
			return next(ctx, rec)
		}
	}
}

// errorAttrReplacer renders error attributes as their message,
// JSON handlers would otherwise encode most error values as an empty object.
func errorAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if attr.Key != ErrorKey && attr.Key != "err" {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok && err != nil {
		return slog.String(attr.Key, err.Error())
	}
	return attr
}
