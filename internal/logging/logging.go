// Package logging builds the zap loggers used by the command-line tools.
// Library packages accept a *zap.Logger and default to a no-op logger.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

type settings struct {
	level  string
	json   bool
	out    io.Writer
	fields map[string]any
}

// Option configures [New].
type Option func(*settings)

// WithLevel sets the minimum level ("debug", "info", "warn", "error").
func WithLevel(level string) Option {
	return func(s *settings) { s.level = level }
}

// WithJSON selects the JSON encoder instead of the console encoder.
func WithJSON(json bool) Option {
	return func(s *settings) { s.json = json }
}

// WithOutput redirects log output. The default is stderr.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithFields attaches fields to every entry.
func WithFields(fields map[string]any) Option {
	return func(s *settings) {
		for k, v := range fields {
			if k == "" {
				continue
			}

			s.fields[k] = v
		}
	}
}

// New returns a logger with production encoder settings and ISO8601
// timestamps.
func New(opts ...Option) (*zap.Logger, error) {
	s := settings{level: "info", out: os.Stderr, fields: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s.level)))
	if err != nil {
		return nil, fiterr.Configuration(fiterr.StageInput, "logging.New", "%v", err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if s.json {
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(s.out), zap.NewAtomicLevelAt(level))

	fields := make([]zap.Field, 0, len(s.fields))
	for k, v := range s.fields {
		fields = append(fields, zap.Any(k, v))
	}

	return zap.New(core, zap.AddCaller()).With(fields...), nil
}
