package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// pushRetryInterval is how long PushWait sleeps before retrying a full queue
const pushRetryInterval = 10 * time.Millisecond

// ListingQueue is an in-memory queue of listing id batches awaiting analysis
type ListingQueue struct {
	items    chan []string
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]string) error
	workers  sync.WaitGroup
}

// NewListingQueue creates a new listing queue with the specified buffer size
func NewListingQueue(bufferSize int, logger *logrus.Logger) *ListingQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &ListingQueue{
		items:    make(chan []string, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]string) error, 0),
	}
}

// Push adds a batch of listing ids to the queue
func (q *ListingQueue) Push(listingIDs []string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- listingIDs:
		q.logger.WithField("batch_size", len(listingIDs)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// PushWait adds a batch, waiting for room while the queue is full. It
// returns early if ctx is done or the queue is closed.
func (q *ListingQueue) PushWait(ctx context.Context, listingIDs []string) error {
	for {
		err := q.Push(listingIDs)
		if !errors.Is(err, ErrQueueFull) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pushRetryInterval):
		}
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *ListingQueue) Subscribe(handler func([]string) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches workers that consume batches until the queue is closed
// and drained
func (q *ListingQueue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.workers.Add(1)
		go q.process()
	}
}

func (q *ListingQueue) process() {
	defer q.workers.Done()
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *ListingQueue) processBatch(batch []string) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops accepting batches. Batches already queued are still processed.
func (q *ListingQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.items)
	return nil
}

// Wait blocks until every worker has exited, which happens after Close once
// the remaining batches are processed
func (q *ListingQueue) Wait() {
	q.workers.Wait()
}

// Len returns the current number of batches in the queue
func (q *ListingQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *ListingQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Batches splits listing ids into consecutive batches of at most size ids
func Batches(listingIDs []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var batches [][]string
	for start := 0; start < len(listingIDs); start += size {
		end := start + size
		if end > len(listingIDs) {
			end = len(listingIDs)
		}
		batches = append(batches, listingIDs[start:end])
	}
	return batches
}
