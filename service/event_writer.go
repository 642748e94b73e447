package service

import (
	"bytes"
	"io"
	"sync"
)

// BroadcastWriter buffers everything written to it (typically a
// cpu.CPU's Output) and forwards each chunk to onWrite, if set. The
// api package's websocket broadcaster plugs in here so terminal output
// from a running program reaches connected clients as it happens.
type BroadcastWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	onWrite func(chunk string)
}

func NewBroadcastWriter(onWrite func(chunk string)) *BroadcastWriter {
	return &BroadcastWriter{onWrite: onWrite}
}

func (w *BroadcastWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buf.Write(p)
	if err == nil && n > 0 && w.onWrite != nil {
		w.onWrite(string(p))
	}
	return n, err
}

// Drain returns everything written so far and clears the buffer.
func (w *BroadcastWriter) Drain() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.buf.String()
	w.buf.Reset()
	return out
}

var _ io.Writer = (*BroadcastWriter)(nil)
