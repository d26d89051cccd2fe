package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultStream       = "ledger:audit"
	defaultWriteTimeout = 2 * time.Second
)

// StreamOptions configures the Redis stream sink.
type StreamOptions struct {
	Stream   string
	MaxLen   int64
	Timeout  time.Duration
	MinLevel Level
}

// StreamSink appends audit events to a Redis stream so other processes can
// consume them.
type StreamSink struct {
	client *redis.Client
	opts   StreamOptions
	logger *slog.Logger
}

// NewStreamSink builds a sink publishing to opts.Stream. Write failures are
// reported on logger at warn level.
func NewStreamSink(client *redis.Client, opts StreamOptions, logger *slog.Logger) *StreamSink {
	if opts.Stream == "" {
		opts.Stream = defaultStream
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultWriteTimeout
	}
	opts.MinLevel = ParseLevel(string(opts.MinLevel))
	return &StreamSink{client: client, opts: opts, logger: logger}
}

// Log publishes the event with XADD.
func (s *StreamSink) Log(_ context.Context, level Level, event string, data map[string]any) {
	defer guard("stream")
	if !level.Valid() || levelRank[level] < levelRank[s.opts.MinLevel] {
		return
	}

	ev := NewEvent(level, event, data)
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		s.fail(event, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: s.opts.Stream,
		MaxLen: s.opts.MaxLen,
		Approx: s.opts.MaxLen > 0,
		Values: map[string]any{
			"event":     ev.Name,
			"level":     string(ev.Level),
			"timestamp": ev.TimestampString(),
			"pid":       ev.PID,
			"data":      string(payload),
		},
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		s.fail(event, err)
	}
}

func (s *StreamSink) fail(event string, err error) {
	if s.logger == nil {
		warn("stream", err)
		return
	}
	s.logger.Warn("audit stream write failed", slog.String("event", event), slog.String("stream", s.opts.Stream), slog.Any("error", err))
}
