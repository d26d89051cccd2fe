package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures a rotating audit log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	MinLevel   Level
}

// FileSink is a WriterSink backed by a size and age rotated file.
type FileSink struct {
	*WriterSink
	out *lumberjack.Logger
}

// NewFileSink prepares the log directory and returns a rotating file sink.
// The file itself is opened lazily on the first event.
func NewFileSink(opts FileOptions) (*FileSink, error) {
	if opts.Path == "" {
		return nil, errors.New("audit log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
	}
	return &FileSink{WriterSink: NewWriterSink(out, opts.MinLevel), out: out}, nil
}

// Rotate forces the current file to be closed and a new one started.
func (s *FileSink) Rotate() error {
	return s.out.Rotate()
}

// Close releases the underlying file.
func (s *FileSink) Close() error {
	return s.out.Close()
}
