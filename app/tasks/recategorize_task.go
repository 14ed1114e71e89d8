package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type RecategorizeTask struct {
	Task
	recategorizer Recategorizer
}

func NewRecategorizeTask(recategorizer Recategorizer) *RecategorizeTask {
	return &RecategorizeTask{
		Task:          NewTask(TaskTypeRecategorize),
		recategorizer: recategorizer,
	}
}

func (t *RecategorizeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	report, err := t.recategorizer.Recategorize(ctx)
	if err != nil {
		return fmt.Errorf("failed to recategorize: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"id", t.ID,
		"duration", t.GetDuration(),
		"scanned", report.Scanned,
		"updated", report.Updated)

	return nil
}
