package logger

import (
	"context"
)

type Logger interface {
	Debug(ctx context.Context, msg string, fields ...KeyValue)
	Info(ctx context.Context, msg string, fields ...KeyValue)
	Warn(ctx context.Context, msg string, fields ...KeyValue)
	Error(ctx context.Context, msg string, fields ...KeyValue)
}

type KeyValue struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func KV(k string, v interface{}) KeyValue {
	return KeyValue{
		Key:   k,
		Value: v,
	}
}

// Tracer is request or process scoped data carried via context
// and attached to every log line.
type Tracer struct {
	RemoteAddr string `json:"remote_addr,omitempty"`
	AppTraceID string `json:"app_trace_id,omitempty"`
}

type tracerCtxKey struct{}

var tracerKey = tracerCtxKey{}

// Inject puts Tracer object into context.
func Inject(ctx context.Context, stuff Tracer) context.Context {
	return context.WithValue(ctx, tracerKey, stuff)
}

// Extract gets Tracer information from context.
func Extract(ctx context.Context) (Tracer, bool) {
	stuff, ok := ctx.Value(tracerKey).(Tracer)
	if !ok {
		return Tracer{}, false
	}

	return stuff, ok
}
