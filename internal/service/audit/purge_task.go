package audit

import (
	"context"
	"time"

	"github.com/KNICEX/ask-ai/internal/repo"
	"github.com/KNICEX/ask-ai/internal/schedule"
	"go.uber.org/zap"
)

type PurgeTask struct {
	records repo.AskRecordRepo
	maxAge  time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewPurgeTask removes ask records older than maxAge on every run.
func NewPurgeTask(records repo.AskRecordRepo, maxAge time.Duration, logger *zap.Logger) schedule.Task {
	return &PurgeTask{
		records: records,
		maxAge:  maxAge,
		logger:  logger,
		now:     time.Now,
	}
}

func (t *PurgeTask) Run(ctx context.Context) error {
	n, err := t.records.DeleteBefore(ctx, t.now().Add(-t.maxAge))
	if err != nil {
		return err
	}
	if n > 0 {
		t.logger.Info("purged ask records", zap.Int64("count", n))
	}
	return nil
}

func (t *PurgeTask) Name() string {
	return "ask record purge task"
}
