package hooks

import (
	"encoding/hex"

	"go.uber.org/zap"
)

// ClosedInput records input used during conversion.
type ClosedInput struct {
	Name   string
	Digest []byte
}

// LogSink reports diagnostics through logger and remembers closed inputs.
type LogSink struct {
	log      *zap.Logger
	warnings int
	closed   []ClosedInput
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Warn(msg string, fields ...zap.Field) {
	s.warnings++
	s.log.Warn(msg, fields...)
}

func (s *LogSink) InputClosed(name string, digest []byte) {
	s.log.Debug("Input closed", zap.String("name", name), zap.String("sha256", hex.EncodeToString(digest)))
	s.closed = append(s.closed, ClosedInput{Name: name, Digest: digest})
}

// Warnings returns number of warnings reported so far.
func (s *LogSink) Warnings() int {
	return s.warnings
}

// Closed returns inputs in the order they were closed.
func (s *LogSink) Closed() []ClosedInput {
	return s.closed
}
