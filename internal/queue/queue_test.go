package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewListingQueue(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestListingQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(2, logger)

	// Test successful push
	err := q.Push([]string{"A1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Test queue full
	_ = q.Push([]string{"A2"})
	err = q.Push([]string{"A3"})
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	q.Close()
	err = q.Push([]string{"A4"})
	assert.Equal(t, ErrQueueClosed, err)
}

func TestListingQueue_DrainsOnClose(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	var processed []string
	var mu sync.Mutex

	q.Subscribe(func(ids []string) error {
		mu.Lock()
		processed = append(processed, ids...)
		mu.Unlock()
		return nil
	})

	// Push before starting so nothing is consumed yet
	assert.NoError(t, q.Push([]string{"A1", "A2"}))
	assert.NoError(t, q.Push([]string{"A3"}))

	q.Start(1)
	q.Close()
	q.Wait()

	mu.Lock()
	assert.Equal(t, []string{"A1", "A2", "A3"}, processed)
	mu.Unlock()
}

func TestListingQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	// Test first close
	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Test second close (should be no-op)
	err = q.Close()
	assert.NoError(t, err)
}

func TestListingQueue_MultipleHandlers(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	processedBatches := 0
	var mu sync.Mutex

	// Add multiple handlers
	for i := 0; i < 3; i++ {
		q.Subscribe(func(ids []string) error {
			mu.Lock()
			processedBatches++
			mu.Unlock()
			return nil
		})
	}

	q.Start(2)
	assert.NoError(t, q.Push([]string{"A1"}))
	q.Close()
	q.Wait()

	// Verify all handlers processed the batch
	mu.Lock()
	assert.Equal(t, 3, processedBatches)
	mu.Unlock()
}

func TestBatches(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E"}

	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, Batches(ids, 2))
	assert.Equal(t, [][]string{{"A", "B", "C", "D", "E"}}, Batches(ids, 10))
	assert.Len(t, Batches(ids, 0), 5)
	assert.Nil(t, Batches(nil, 3))
}

func TestListingQueue_PushWaitMoreBatchesThanCapacity(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(2, logger)

	var processed []string
	var mu sync.Mutex

	// One slow worker so the producer outruns the queue
	q.Subscribe(func(ids []string) error {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		processed = append(processed, ids...)
		mu.Unlock()
		return nil
	})
	q.Start(1)

	for _, batch := range Batches([]string{"A", "B", "C", "D", "E"}, 1) {
		assert.NoError(t, q.PushWait(context.Background(), batch))
	}
	q.Close()
	q.Wait()

	mu.Lock()
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, processed)
	mu.Unlock()
}

func TestListingQueue_PushWaitCancelled(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(1, logger)
	assert.NoError(t, q.Push([]string{"A1"}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	// No worker drains the queue
	err := q.PushWait(ctx, []string{"A2"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, q.Len())
}

func TestListingQueue_PushWaitClosed(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(1, logger)
	q.Close()

	err := q.PushWait(context.Background(), []string{"A1"})
	assert.Equal(t, ErrQueueClosed, err)
}
