package commands

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// ZerologLogger adapts a zerolog.Logger to the client's neon.Logger interface.
type ZerologLogger struct {
	logger zerolog.Logger
}

var _ neon.Logger = (*ZerologLogger)(nil)

// NewZerologLogger wraps logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// NewConsoleLogger returns a human-readable logger writing to out. Verbose
// loggers emit debug events; the others only warnings and above.
func NewConsoleLogger(out io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: true}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func (l *ZerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}
