package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerAnimates(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, true, "Analyzing")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Analyzing") {
		t.Errorf("spinner output %q lacks the message", out.String())
	}
}

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, false, "Analyzing")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if out.String() != "" {
		t.Errorf("non-terminal spinner wrote %q", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, true, "Testing")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	s.Stop()
	if s.ctx.Err() == nil {
		t.Error("spinner context still live after cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, true, "Testing")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}
