package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskQueueRunsEnqueuedTasks(t *testing.T) {
	q := NewTaskQueue(2, 16, 1, 0)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		q.Enqueue(Task{Name: "count", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
	}
	q.Close()

	assert.Equal(t, int32(5), ran.Load())
}

func TestTaskQueueRetriesUntilSuccess(t *testing.T) {
	q := NewTaskQueue(1, 4, 3, 0)

	var attempts atomic.Int32
	q.Enqueue(Task{Name: "flaky", Run: func(ctx context.Context) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}})
	q.Close()

	assert.Equal(t, int32(3), attempts.Load())
}

func TestTaskQueueGivesUpAfterMaxAttempts(t *testing.T) {
	q := NewTaskQueue(1, 4, 2, 0)

	var attempts atomic.Int32
	q.Enqueue(Task{Name: "doomed", Run: func(ctx context.Context) error {
		attempts.Add(1)
		return errors.New("permanent")
	}})
	q.Close()

	assert.Equal(t, int32(2), attempts.Load(), "stops at maxAttempts")
}

func TestTaskQueueDropsWhenFull(t *testing.T) {
	q := NewTaskQueue(1, 1, 1, 0)

	block := make(chan struct{})
	var ran atomic.Int32
	q.Enqueue(Task{Name: "blocker", Run: func(ctx context.Context) error {
		<-block
		return nil
	}})
	// fills the single buffer slot, then one more that must be dropped
	for i := 0; i < 5; i++ {
		q.Enqueue(Task{Name: "maybe", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
	}
	close(block)
	q.Close()

	assert.LessOrEqual(t, ran.Load(), int32(2), "overflow tasks are dropped, not queued")
}
