package authgate

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger defines the logging interface used across the gate, its core
// and the jwks and validator packages. It is compatible with
// log/slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogrusLogger returns a Logger backed by logrus. Key/value args
// become logrus fields.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l: l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (a *logrusLoggerAdapter) Debug(msg string, args ...any) { a.with(args).Debug(msg) }
func (a *logrusLoggerAdapter) Info(msg string, args ...any)  { a.with(args).Info(msg) }
func (a *logrusLoggerAdapter) Warn(msg string, args ...any)  { a.with(args).Warn(msg) }
func (a *logrusLoggerAdapter) Error(msg string, args ...any) { a.with(args).Error(msg) }

func (a *logrusLoggerAdapter) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return a.l
	}

	fields := make(logrus.Fields, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}

	return a.l.WithFields(fields)
}
