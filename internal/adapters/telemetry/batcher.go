// Package telemetry bridges OpenTelemetry spans to progress renderers.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the buffered size that forces a flush, even of a partial line.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is how long complete lines may wait before they are flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

// ErrBatcherClosed is returned by writes after Close.
var ErrBatcherClosed = errors.New("batch processor is closed")

// BatchProcessor coalesces stage output into line-aligned chunks. Complete
// lines are delivered at most timeLimit after they were written; a trailing
// partial line waits for its newline, the size limit, or Close.
// It is safe for concurrent use.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewBatchProcessor returns a BatchProcessor. Non-positive limits select the
// defaults. Call Close to deliver the remainder.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	return &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
	}
}

// Write buffers p. It flushes everything once the size limit is reached and
// otherwise arms the timer when p completes a line.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, ErrBatcherClosed
	}

	n, _ := bp.buffer.Write(p)
	switch {
	case bp.buffer.Len() >= bp.sizeLimit:
		bp.deliverLocked(bp.buffer.Len())
	case bytes.IndexByte(p, '\n') >= 0 && bp.timer == nil:
		bp.timer = time.AfterFunc(bp.timeLimit, bp.Flush)
	}
	return n, nil
}

// Flush delivers the buffered complete lines.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.timer = nil
	if bp.closed {
		return
	}
	bp.deliverLocked(bytes.LastIndexByte(bp.buffer.Bytes(), '\n') + 1)
}

// Close delivers everything still buffered, partial line included.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true
	if bp.timer != nil {
		bp.timer.Stop()
		bp.timer = nil
	}
	bp.deliverLocked(bp.buffer.Len())
	return nil
}

// deliverLocked hands the first n buffered bytes to the callback. It runs
// under mu so chunks arrive in write order.
func (bp *BatchProcessor) deliverLocked(n int) {
	if n <= 0 {
		return
	}
	data := make([]byte, n)
	copy(data, bp.buffer.Next(n))

	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
