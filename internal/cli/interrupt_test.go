package cli

import (
	"bytes"
	"context"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandlerDefaultsToStdout(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestHandleInterruptsStop(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{})
	ctx, stop := handler.HandleInterrupts(context.Background(), "")

	stop()
	stop()

	assert.Error(t, ctx.Err())
	assert.False(t, handler.WasInterrupted())
}

func TestHandleInterruptsOnSignal(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	ctx, stop := handler.HandleInterrupts(context.Background(), "Nothing was saved.")
	defer stop()

	handler.signals <- syscall.SIGINT

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}

	require.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
	assert.Contains(t, output.String(), "Interrupted!")
	assert.Contains(t, output.String(), "Nothing was saved.")
}
