package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/rss-sieve/app/ingest"
)

// TaskSchedulerInterface is used by the application entry point and the API
// to run background work.
//
//	scheduler := NewScheduler(ingestor, maintainer, responseCache, m, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	id, err := scheduler.Submit(TaskTypeRecategorize)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	Submit(taskType TaskType) (string, error)
}

type Sweeper interface {
	Sweep(ctx context.Context) (ingest.SweepReport, error)
}

type Recategorizer interface {
	Recategorize(ctx context.Context) (ingest.RecategorizeReport, error)
}

type Purger interface {
	Purge(ctx context.Context, now time.Time) (int64, error)
}

// Invalidator drops cached read responses after a task changed articles.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
