package mocks

import (
	"bytes"
	"log/slog"
)

// NewLoggerMock returns a text logger writing to the returned buffer, without
// timestamps, at the default INFO level.
func NewLoggerMock() (*bytes.Buffer, *slog.Logger) {
	return NewLoggerMockWithLevel(slog.LevelInfo)
}

func NewLoggerMockWithLevel(level slog.Level) (*bytes.Buffer, *slog.Logger) {
	buf := &bytes.Buffer{}
	return buf, slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
