package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is a named unit of background work. Aggregate maintenance (review
// counts, like counts, stock restores) and notification sends run here so the
// user-visible response never waits on them, while failures stay observable
// in the logs instead of vanishing inside an unawaited call.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type TaskQueue struct {
	tasks       chan Task
	wg          sync.WaitGroup
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration
}

// NewTaskQueue starts workers draining a bounded queue. Each task gets
// maxAttempts tries with a fixed backoff between them; a task that exhausts
// its attempts is logged and dropped, never propagated to a response.
func NewTaskQueue(workers, buffer, maxAttempts int, backoff time.Duration) *TaskQueue {
	if workers < 1 {
		workers = 1
	}
	q := &TaskQueue{
		tasks:       make(chan Task, buffer),
		maxAttempts: maxAttempts,
		backoff:     backoff,
		timeout:     30 * time.Second,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *TaskQueue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.process(task)
	}
}

func (q *TaskQueue) process(task Task) {
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := task.Run(ctx)
		cancel()
		if err == nil {
			return
		}
		log.Printf("task %s failed (attempt %d/%d): %v", task.Name, attempt, q.maxAttempts, err)
		if attempt < q.maxAttempts {
			time.Sleep(q.backoff)
		}
	}
	log.Printf("task %s gave up after %d attempts", task.Name, q.maxAttempts)
}

// Enqueue hands a task to the workers without blocking the caller. When the
// buffer is full the task is dropped with a log line; queue consumers are all
// best-effort reconciliation that a periodic recount can repair.
func (q *TaskQueue) Enqueue(task Task) {
	select {
	case q.tasks <- task:
	default:
		log.Printf("task queue full, dropping task %s", task.Name)
	}
}

// Close stops accepting tasks and waits for the workers to drain what was
// already queued.
func (q *TaskQueue) Close() {
	close(q.tasks)
	q.wg.Wait()
}
