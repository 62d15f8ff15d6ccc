package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task interface {
	Run(ctx context.Context) error
	Name() string
}

// Every runs task once immediately and then on each tick until ctx is done.
// A failed run is logged and does not stop later runs.
func Every(ctx context.Context, interval time.Duration, task Task, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := task.Run(ctx); err != nil {
			logger.Warn("task failed", zap.String("task", task.Name()), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
