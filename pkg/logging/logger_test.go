package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	logger := NewLogger()
	if logger.Level != logrus.InfoLevel {
		t.Fatalf("expected info level, got %v", logger.Level)
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", logger.Formatter)
	}
}

func TestNewLoggerWithService(t *testing.T) {
	logger := NewLoggerWithService("researcher")
	if logger == nil {
		t.Fatal("expected logger instance")
	}
}
