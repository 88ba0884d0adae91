package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type staticChecker bool

func (s staticChecker) IsVerbose() bool { return bool(s) }

func TestVerboseGate(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    []string
		absent  []string
	}{
		{"quiet", false, []string{"WARN", "ERROR"}, []string{"DEBUG", "INFO"}},
		{"verbose", true, []string{"DEBUG", "INFO", "WARN", "ERROR"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New("editor", staticChecker(tt.verbose))
			l.SetOutput(&buf)

			l.Debug("debug %d", 1)
			l.Info("info")
			l.Warn("warn")
			l.Error("error")

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("Expected %s line in %q", s, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("Unexpected %s line in %q", s, out)
				}
			}
		})
	}
}

func TestFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithCallback("", func() bool { return true })
	l.SetOutput(&buf)

	l.DebugWithFields("resampled", []Field{Points(12), Smoothing(2.5), Error(errors.New("boom"))})
	line := buf.String()
	if !strings.Contains(line, "DEBUG [main] resampled [points=12 smoothing=2.5 error=boom]") {
		t.Errorf("Unexpected line %q", line)
	}

	buf.Reset()
	l.WithComponent("overlay").WarnWithFields("reload", []Field{Path("lane.csv")})
	if !strings.Contains(buf.String(), "WARN [overlay] reload [path=lane.csv]") {
		t.Errorf("Derived logger should share the output, got %q", buf.String())
	}
}

func TestPercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New("cli", nil)
	l.SetOutput(&buf)
	l.Warn("100% done")
	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("message without args must be written verbatim, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("dropped")
	l.WithComponent("x").Warn("dropped too")
}
