package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
		"off":     LevelNone,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q)=%v want %v", in, got, want)
		}
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("filtered lines leaked: %q", out)
	}
	if !strings.Contains(out, "WARN: shown 3") || !strings.Contains(out, "ERROR: shown 4") {
		t.Fatalf("missing lines: %q", out)
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, LevelError)
	child := root.Named("CONDUCTOR")
	child.Infof("quiet")
	root.SetLevel(LevelDebug)
	child.Debugf("beat %d", 7)
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("child ignored parent level: %q", out)
	}
	if !strings.Contains(out, "DEBUG: [CONDUCTOR] beat 7") {
		t.Fatalf("missing prefixed line: %q", out)
	}
}
