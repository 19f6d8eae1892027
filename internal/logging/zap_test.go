package logging

import (
	"testing"
)

func TestNewZapLogger_ValidLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if _, err := NewZapLogger(lvl); err != nil {
			t.Fatalf("NewZapLogger(%q) returned error: %v", lvl, err)
		}
	}
}

func TestNewZapLogger_InvalidLevel(t *testing.T) {
	if _, err := NewZapLogger("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestZapLogger_WithReturnsLogger(t *testing.T) {
	l, err := NewZapLogger("info")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := l.With("component", "test")
	if child == nil {
		t.Fatalf("With returned nil")
	}
}
