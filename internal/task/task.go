package task

import (
	"context"

	"github.com/google/uuid"
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier, used in logs and metrics
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue.
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing.
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// Func adapts a function to the Task interface.
type Func struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

var _ Task = (*Func)(nil)

// NewFunc creates a task of the given type that runs fn.
func NewFunc(taskType string, fn func(ctx context.Context) error) *Func {
	return &Func{
		id:       uuid.New(),
		taskType: taskType,
		fn:       fn,
	}
}

// ID implements Task.
func (f *Func) ID() uuid.UUID { return f.id }

// Type implements Task.
func (f *Func) Type() string { return f.taskType }

// Execute implements Task.
func (f *Func) Execute(ctx context.Context) error { return f.fn(ctx) }
