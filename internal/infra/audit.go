package infra

import (
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/digital_wallet/internal/audit"
	"github.com/congo-pay/digital_wallet/internal/config"
)

// NewAuditSink assembles the ledger's audit sink from configuration: a
// rotating file (or stdout when no file is configured or it cannot be
// prepared), plus a Redis stream when a client is supplied. The returned
// closer releases the file.
func NewAuditSink(cfg config.AuditConfig, cache *redis.Client, logger *slog.Logger) (audit.Sink, io.Closer) {
	level := audit.ParseLevel(cfg.Level)

	var (
		primary audit.Sink
		closer  io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		fileSink, err := audit.NewFileSink(audit.FileOptions{
			Path:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			MinLevel:   level,
		})
		if err != nil {
			logger.Warn("audit log file unavailable, using stdout", slog.String("file", cfg.File), slog.Any("error", err))
		} else {
			primary, closer = fileSink, fileSink
		}
	}
	if primary == nil {
		primary = audit.NewWriterSink(os.Stdout, level)
	}

	if cache == nil {
		return primary, closer
	}
	stream := audit.NewStreamSink(cache, audit.StreamOptions{
		Stream:   cfg.Stream,
		MaxLen:   cfg.StreamMaxLen,
		MinLevel: level,
	}, logger)
	return audit.Multi(primary, stream), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
