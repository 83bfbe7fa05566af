package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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

func TestSpinnerBasic(t *testing.T) {
	var w syncBuffer
	s := newSpinnerTo(context.Background(), &w, "Dilating...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains([]byte(w.String()), []byte("Dilating...")) {
		t.Errorf("spinner never rendered its message: %q", w.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "never started")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that was never started")
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var buf bytes.Buffer
	old := out
	out = &buf
	defer func() { out = old }()

	s := newSpinnerTo(context.Background(), &syncBuffer{}, "working")
	s.Start()
	s.StopWithSuccess("Done!")
	s2 := newSpinnerTo(context.Background(), &syncBuffer{}, "working")
	s2.StopWithError("Failed!")

	got := buf.String()
	for _, want := range []string{iconSuccess + " Done!", iconError + " Failed!"} {
		if !bytes.Contains([]byte(got), []byte(want)) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestSpinnerProgress(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "start")
	report := s.Progress([]string{"aparc", "dkt"})

	report(0, 512, 1024)
	if got, want := s.Message(), "Dilating aparc (1/2) 50%"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	report(1, 0, 0)
	if got, want := s.Message(), "Dilating dkt (2/2) 100%"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}

	unnamed := s.Progress(nil)
	unnamed(2, 1, 4)
	if got, want := s.Message(), "Dilating column 3 (3/3) 25%"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
