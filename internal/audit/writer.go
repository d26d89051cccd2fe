package audit

import (
	"context"
	"io"
	"log/slog"
)

// levelFatal sits above slog's error level.
const levelFatal = slog.Level(12)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
	LevelFatal: levelFatal,
}

// WriterSink renders events as slog JSON records on an io.Writer.
type WriterSink struct {
	handler slog.Handler
	min     Level
}

// NewWriterSink builds a sink writing one JSON record per event to w.
// Events below minLevel are skipped.
func NewWriterSink(w io.Writer, minLevel Level) *WriterSink {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: renameFatal,
	})
	return &WriterSink{handler: handler, min: ParseLevel(string(minLevel))}
}

// Log writes the event. Write failures are reported on stderr only.
func (s *WriterSink) Log(ctx context.Context, level Level, event string, data map[string]any) {
	defer guard("writer")
	if !level.Valid() || levelRank[level] < levelRank[s.min] {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ev := NewEvent(level, event, data)
	rec := slog.NewRecord(ev.Timestamp, slogLevels[level], ev.Name, 0)
	rec.AddAttrs(
		slog.String("event", ev.Name),
		slog.String("timestamp", ev.TimestampString()),
		slog.Any("data", ev.Data),
		slog.Int("pid", ev.PID),
	)
	if err := s.handler.Handle(ctx, rec); err != nil {
		warn("writer", err)
	}
}

func renameFatal(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == levelFatal {
		a.Value = slog.StringValue("FATAL")
	}
	return a
}
