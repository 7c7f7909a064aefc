// Package observability builds the zap logger and adapts it to the gRPC
// logging interceptor.
package observability

import (
	"context"
	"fmt"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// NewLogger creates a structured logger from the logging configuration.
// Format json uses zap's production encoder, console the development one.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.InvalidArgumentf("invalid log level %q", cfg.Level)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, errors.InvalidArgumentf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to build logger")
	}
	return logger, nil
}

// InterceptorLogger adapts a zap logger to the go-grpc-middleware logging
// interceptors. Fields arrive as alternating key/value pairs.
func InterceptorLogger(l *zap.Logger) grpc_logging.Logger {
	l = l.WithOptions(zap.AddCallerSkip(1))
	return grpc_logging.LoggerFunc(func(_ context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
		zapFields := make([]zap.Field, 0, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				key = fmt.Sprint(fields[i])
			}
			switch v := fields[i+1].(type) {
			case string:
				zapFields = append(zapFields, zap.String(key, v))
			case int:
				zapFields = append(zapFields, zap.Int(key, v))
			case bool:
				zapFields = append(zapFields, zap.Bool(key, v))
			default:
				zapFields = append(zapFields, zap.Any(key, v))
			}
		}

		switch lvl {
		case grpc_logging.LevelDebug:
			l.Debug(msg, zapFields...)
		case grpc_logging.LevelInfo:
			l.Info(msg, zapFields...)
		case grpc_logging.LevelWarn:
			l.Warn(msg, zapFields...)
		default:
			l.Error(msg, zapFields...)
		}
	})
}
