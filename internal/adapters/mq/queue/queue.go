// Package queue carries pose estimates from the acquisition loop to the
// pipeline runner.
//
// The queue is strictly bounded: when the runner cannot keep up, new frames
// are dropped rather than queued, keeping memory and latency bounded.
package queue

import (
	"context"
	"sync"

	"github.com/aquametrics/strokecore/internal/domain/model"
	"github.com/aquametrics/strokecore/pkg/metrics"
)

// Default queue configuration constants.
const defaultCapacity = 30 // ~1s of frames at 30 fps

// Frame is the payload type flowing through the queue.
type Frame = model.Detection

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a frame. Returns false if the queue is full or closed;
	// the caller treats that as a dropped frame.
	Enqueue(ctx context.Context, f Frame) bool

	// Dequeue returns the channel frames arrive on. The channel is closed
	// when the queue is closed.
	Dequeue() <-chan Frame

	// Len returns the current number of queued frames.
	Len() int

	// Close shuts the queue down. After closing, no new frames can be
	// enqueued and the dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	frames   chan Frame
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.frames = make(chan Frame, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds a frame without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, f Frame) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.frames <- f:
		size := len(q.frames)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueDrop()
		return false
	}
}

// Dequeue returns the frame channel.
func (q *InMemoryQueue) Dequeue() <-chan Frame {
	return q.frames
}

// Len returns the current number of queued frames.
func (q *InMemoryQueue) Len() int {
	return len(q.frames)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.frames)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
