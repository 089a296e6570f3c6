package logger

import (
	"context"
	"testing"

	"github.com/LavaJover/freelink-contract-service/internal/config"
	"go.uber.org/zap"
)

func TestNewLoggerLevels(t *testing.T) {
	l, err := NewLogger(config.LogConfig{LogLevel: "warn", LogFormat: "json", LogOutput: "stderr"})
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Fatal("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zap.ErrorLevel) {
		t.Fatal("error must be enabled at warn level")
	}

	if _, err := NewLogger(config.LogConfig{LogLevel: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestFromContext(t *testing.T) {
	fallback := zap.NewNop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger")
	}

	scoped := zap.NewExample()
	ctx := WithContext(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatal("expected request logger")
	}
	if FromContext(context.Background(), nil) == nil {
		t.Fatal("nil fallback must yield a nop logger")
	}
}
