package observability

import "time"

// Logger defines the interface for logging operations in the observability
// package.
//
//go:generate mockgen -source=logging.go -destination=mock_logger.go -package=observability
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// LoggingObserver logs completed operations: failures at error level, slow
// operations at warn level, everything else at debug level.
type LoggingObserver struct {
	logger Logger

	// slowThreshold marks operations as slow; zero disables the check
	slowThreshold time.Duration
}

// NewLoggingObserver returns an observer that reports operations through
// logger. slowThreshold of zero disables slow-operation warnings.
func NewLoggingObserver(logger Logger, slowThreshold time.Duration) *LoggingObserver {
	return &LoggingObserver{logger: logger, slowThreshold: slowThreshold}
}

func (l *LoggingObserver) ObserveOperation(ctx OperationContext) {
	fields := map[string]interface{}{
		"component":   ctx.Component,
		"operation":   ctx.Operation,
		"duration_ms": ctx.Duration.Milliseconds(),
	}
	if ctx.Resource != "" {
		fields["resource"] = ctx.Resource
	}
	if ctx.SubResource != "" {
		fields["sub_resource"] = ctx.SubResource
	}
	if ctx.Size > 0 {
		fields["size_bytes"] = ctx.Size
	}
	for k, v := range ctx.Metadata {
		fields[k] = v
	}

	switch {
	case ctx.Error != nil:
		l.logger.Error("operation failed", ctx.Error, fields)
	case l.slowThreshold > 0 && ctx.Duration >= l.slowThreshold:
		l.logger.Warn("slow operation", nil, fields)
	default:
		l.logger.Debug("operation completed", nil, fields)
	}
}
