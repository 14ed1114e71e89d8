package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeSweep        TaskType = "sweep"
	TaskTypeRecategorize TaskType = "recategorize"
	TaskTypePurge        TaskType = "purge"
)

const (
	DefaultMaxRetries = 3
	DefaultTimeout    = 5 * time.Minute
	maxRetryDelay     = 30 * time.Second
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetRetryCount() int
	GetMaxRetries() int
	GetTimeout() time.Duration
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	RetryCount int
	MaxRetries int
	Timeout    time.Duration
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) GetTimeout() time.Duration {
	return t.Timeout
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
	}
}

// retryDelay doubles with every attempt starting at one second.
func retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		return time.Second
	}
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}
