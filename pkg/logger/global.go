package logger

import (
	"context"
)

type noop struct{}

func (n noop) Debug(context.Context, string, ...KeyValue) {}
func (n noop) Info(context.Context, string, ...KeyValue)  {}
func (n noop) Warn(context.Context, string, ...KeyValue)  {}
func (n noop) Error(context.Context, string, ...KeyValue) {}

var _ Logger = noop{}

// global logger is set once at process start, before any goroutine logs.
var global Logger = noop{}

func SetGlobalLogger(l Logger) {
	if l == nil {
		return
	}

	global = l
}

func Debug(ctx context.Context, msg string, fields ...KeyValue) {
	global.Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...KeyValue) {
	global.Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...KeyValue) {
	global.Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...KeyValue) {
	global.Error(ctx, msg, fields...)
}
