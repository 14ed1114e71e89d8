package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// A full sweep fetches every source, so it gets more time than other tasks.
const sweepTimeout = 20 * time.Minute

type SweepTask struct {
	Task
	sweeper Sweeper
}

func NewSweepTask(sweeper Sweeper) *SweepTask {
	task := NewTask(TaskTypeSweep)
	task.Timeout = sweepTimeout

	return &SweepTask{
		Task:    task,
		sweeper: sweeper,
	}
}

func (t *SweepTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	report, err := t.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete sweep: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"id", t.ID,
		"duration", t.GetDuration(),
		"new", report.Total,
		"failed_sources", len(report.Failed),
		"purged", report.Purged)

	return nil
}
