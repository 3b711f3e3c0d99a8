package messaging

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// ZapLogger routes watermill logs through zap.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger as a watermill.LoggerAdapter.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger.Named("watermill")}
}

func (z *ZapLogger) Error(msg string, err error, fields watermill.LogFields) {
	z.logger.Error(msg, append(toZap(fields), zap.Error(err))...)
}

func (z *ZapLogger) Info(msg string, fields watermill.LogFields) {
	z.logger.Info(msg, toZap(fields)...)
}

func (z *ZapLogger) Debug(msg string, fields watermill.LogFields) {
	z.logger.Debug(msg, toZap(fields)...)
}

// Trace is logged at debug level; zap has nothing finer.
func (z *ZapLogger) Trace(msg string, fields watermill.LogFields) {
	z.logger.Debug(msg, toZap(fields)...)
}

func (z *ZapLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &ZapLogger{logger: z.logger.With(toZap(fields)...)}
}

func toZap(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}

	return out
}
