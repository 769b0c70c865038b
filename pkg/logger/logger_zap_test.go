package logger_test

import (
	"context"
	"io"
	"testing"

	"github.com/joaop06/jcoder/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestZap() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			MessageKey:     "msg",
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			LineEnding:     zapcore.DefaultLineEnding,
			LevelKey:       "level",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
		}),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(io.Discard)),
		zapcore.DebugLevel,
	)

	return zap.New(core)
}

func TestExtractWithoutInject(t *testing.T) {
	_, ok := logger.Extract(context.Background())
	if ok {
		t.Fatal("expected no tracer on a fresh context")
	}
}

func BenchmarkNewZap(b *testing.B) {
	uniLogger := logger.NewZap(newTestZap())

	ctx := logger.Inject(context.Background(), logger.Tracer{AppTraceID: "test"})
	for i := 0; i < b.N; i++ {
		uniLogger.Error(ctx, "message")
	}
}
