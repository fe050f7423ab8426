package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("analyzed trees", "trees", 3)

	for _, want := range []string{"analyzed trees", "trees=3", "elapsed="} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("progress output = %q, want %q", buf.String(), want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}
}
