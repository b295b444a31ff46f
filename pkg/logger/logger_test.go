package logger

import (
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "debug"},
		{InfoLevel, "info"},
		{WarnLevel, "warn"},
		{ErrorLevel, "error"},
		{Level(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	l := New(&Config{Level: InfoLevel, Format: "json", Output: "stderr"})
	defer l.Close()

	if got := l.GetLevel(); got != InfoLevel {
		t.Fatalf("GetLevel() = %v, want %v", got, InfoLevel)
	}

	l.SetLevel(DebugLevel)

	if got := l.GetLevel(); got != DebugLevel {
		t.Errorf("GetLevel() after SetLevel = %v, want %v", got, DebugLevel)
	}
}

func TestWith_SharesLevel(t *testing.T) {
	base := New(&Config{Level: WarnLevel, Format: "text", Output: "stderr"})
	defer base.Close()

	derived := base.With("component", "test")

	if got := derived.GetLevel(); got != WarnLevel {
		t.Errorf("derived GetLevel() = %v, want %v", got, WarnLevel)
	}
}
