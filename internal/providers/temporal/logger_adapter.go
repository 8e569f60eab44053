package temporal

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// zapLogger bridges a zap.Logger to Temporal's keyval-style log.Logger so
// sdk internals log through the process logger.
type zapLogger struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter wraps a zap logger for use as a Temporal sdk logger.
func NewZapLoggerAdapter(logger *zap.Logger) log.Logger {
	return &zapLogger{logger: logger}
}

func (z *zapLogger) Debug(msg string, keyvals ...interface{}) {
	z.logger.Debug(msg, toFields(keyvals)...)
}

func (z *zapLogger) Info(msg string, keyvals ...interface{}) {
	z.logger.Info(msg, toFields(keyvals)...)
}

func (z *zapLogger) Warn(msg string, keyvals ...interface{}) {
	z.logger.Warn(msg, toFields(keyvals)...)
}

func (z *zapLogger) Error(msg string, keyvals ...interface{}) {
	z.logger.Error(msg, toFields(keyvals)...)
}

// toFields folds Temporal's alternating key/value slice into zap fields.
// A trailing key without a value is dropped, as are non-string keys.
func toFields(keyvals []interface{}) []zap.Field {
	n := len(keyvals) / 2
	fields := make([]zap.Field, 0, n)
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}
	return fields
}
