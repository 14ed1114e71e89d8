package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type PurgeTask struct {
	Task
	purger Purger
}

func NewPurgeTask(purger Purger) *PurgeTask {
	return &PurgeTask{
		Task:   NewTask(TaskTypePurge),
		purger: purger,
	}
}

func (t *PurgeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	deleted, err := t.purger.Purge(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to purge: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"id", t.ID,
		"duration", t.GetDuration(),
		"deleted", deleted)

	return nil
}
