package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
	}{
		{name: "production info", level: "info"},
		{name: "development debug", level: "debug", development: true},
		{name: "warn", level: "warn"},
		{name: "invalid level defaults to info", level: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.development)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if log == nil || log.Zap() == nil {
				t.Fatal("expected non-nil logger")
			}
			defer func() { _ = log.Sync() }()
		})
	}
}

func TestNewAppliesLevel(t *testing.T) {
	log, err := New("warn", false)
	if err != nil {
		t.Fatal(err)
	}
	if log.Zap().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !log.Zap().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	if err != nil || l != zapcore.DebugLevel {
		t.Errorf("ParseLevel(debug) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWithFields(t *testing.T) {
	log := Nop()
	if log.WithFields("run", "abc") == nil {
		t.Error("expected non-nil logger")
	}
	if log.WithError(errors.New("boom")) == nil {
		t.Error("expected non-nil logger")
	}
}
