package audit

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Level is the severity attached to an audit event.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// timestampLayout renders UTC ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

// Valid reports whether l is a recognized level.
func (l Level) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// ParseLevel returns the level named by s. Unknown names default to info.
func ParseLevel(s string) Level {
	l := Level(s)
	if !l.Valid() {
		return LevelInfo
	}
	return l
}

// Sink receives structured audit events. Implementations must never panic
// or surface failures to the caller, and must drop events whose level is
// not recognized.
type Sink interface {
	Log(ctx context.Context, level Level, event string, data map[string]any)
}

// Event is the rendered form of a single audit record.
type Event struct {
	Level     Level
	Name      string
	Timestamp time.Time
	Data      map[string]any
	PID       int
}

// TimestampString formats the event time as UTC ISO-8601 with milliseconds.
func (e Event) TimestampString() string {
	return e.Timestamp.UTC().Format(timestampLayout)
}

// NewEvent renders an event with a sanitized deep copy of data.
func NewEvent(level Level, name string, data map[string]any) Event {
	return Event{
		Level:     level,
		Name:      name,
		Timestamp: time.Now().UTC(),
		Data:      Sanitize(data),
		PID:       os.Getpid(),
	}
}

// guard converts a panic inside a sink into a diagnostic on stderr.
func guard(sink string) {
	if r := recover(); r != nil {
		warn(sink, fmt.Errorf("panic: %v", r))
	}
}

func warn(sink string, err error) {
	fmt.Fprintf(os.Stderr, "audit: %s sink failed: %v\n", sink, err)
}

type nopSink struct{}

func (nopSink) Log(context.Context, Level, string, map[string]any) {}

// Nop returns a sink that discards every event.
func Nop() Sink {
	return nopSink{}
}

type multiSink []Sink

func (m multiSink) Log(ctx context.Context, level Level, event string, data map[string]any) {
	for _, s := range m {
		logSafely(ctx, s, level, event, data)
	}
}

type safeSink struct {
	next Sink
}

func (s safeSink) Log(ctx context.Context, level Level, event string, data map[string]any) {
	logSafely(ctx, s.next, level, event, data)
}

// Safe wraps sink so a panic inside it is reported on stderr instead of
// reaching the caller. A nil sink becomes Nop.
func Safe(sink Sink) Sink {
	switch sink.(type) {
	case nil:
		return Nop()
	case safeSink, nopSink:
		return sink
	}
	return safeSink{next: sink}
}

func logSafely(ctx context.Context, sink Sink, level Level, event string, data map[string]any) {
	defer guard(fmt.Sprintf("%T", sink))
	sink.Log(ctx, level, event, data)
}

// Multi fans each event out to all non-nil sinks in order. A panicking sink
// does not stop delivery to the ones after it.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
