package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-sieve/app/metrics"
)

const (
	taskQueueSize   = 300
	defaultInterval = 24 * time.Hour
)

var ErrUnknownTaskType = errors.New("unknown task type")

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Maintainer covers the batch jobs that act on stored articles.
type Maintainer interface {
	Recategorizer
	Purger
}

type Scheduler struct {
	sweeper     Sweeper
	maintainer  Maintainer
	invalidator Invalidator
	metrics     *metrics.Metrics
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(sweeper Sweeper, maintainer Maintainer, invalidator Invalidator,
	m *metrics.Metrics, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if interval <= 0 {
		interval = defaultInterval
	}
	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		sweeper:     sweeper,
		maintainer:  maintainer,
		invalidator: invalidator,
		metrics:     m,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
	}
}

// Start launches the workers, queues a sweep right away and then one per
// interval.
func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueSweep()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueSweep()
			}
		}
	}()

	slog.Info("Scheduler started", "workers", s.workerCount, "interval", s.interval.String())
}

// Stop cancels running tasks and waits for the workers to exit. Queued
// tasks are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Submit queues a task of the given type and returns its ID.
func (s *Scheduler) Submit(taskType TaskType) (string, error) {
	task, err := s.newTask(taskType)
	if err != nil {
		return "", err
	}

	if err := s.EnqueueTask(task); err != nil {
		return "", fmt.Errorf("failed to enqueue %s task: %w", taskType, err)
	}

	slog.Info("Task submitted", "type", string(taskType), "id", task.GetID())
	return task.GetID(), nil
}

func (s *Scheduler) newTask(taskType TaskType) (TaskInterface, error) {
	switch taskType {
	case TaskTypeSweep:
		return NewSweepTask(s.sweeper), nil
	case TaskTypeRecategorize:
		return NewRecategorizeTask(s.maintainer), nil
	case TaskTypePurge:
		return NewPurgeTask(s.maintainer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, taskType)
	}
}

func (s *Scheduler) enqueueSweep() {
	if _, err := s.Submit(TaskTypeSweep); err != nil {
		slog.Warn("Failed to enqueue scheduled sweep", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, task.GetTimeout())
	defer cancel()

	err := task.Execute(taskCtx)
	s.metrics.ObserveTask(string(task.GetType()), err)

	if err == nil {
		if s.invalidator != nil {
			if err := s.invalidator.Invalidate(s.ctx); err != nil {
				slog.Warn("Failed to invalidate response cache", "type", string(task.GetType()), "id", task.GetID(), "error", err)
			}
		}
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
