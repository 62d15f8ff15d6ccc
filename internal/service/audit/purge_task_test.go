package audit

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KNICEX/ask-ai/internal/entity"
	"github.com/KNICEX/ask-ai/internal/repo"
	"github.com/KNICEX/ask-ai/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPurgeTask(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ask.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repo.InitTables(db))
	records := repo.NewAskRecordRepo(db)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, age := range []time.Duration{0, 23 * time.Hour, 25 * time.Hour, 72 * time.Hour} {
		_, err := records.Create(ctx, entity.AskRecord{Model: "m", Status: entity.AskStatusOK, CreatedAt: now.Add(-age)})
		require.NoError(t, err)
	}

	task := NewPurgeTask(records, 24*time.Hour, zap.NewNop()).(*PurgeTask)
	task.now = func() time.Time { return now }
	require.NoError(t, task.Run(ctx))

	left, err := records.FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, left, 2)
	assert.Equal(t, "ask record purge task", task.Name())
}

type countingTask struct {
	runs atomic.Int32
	err  error
}

func (c *countingTask) Run(ctx context.Context) error {
	c.runs.Add(1)
	return c.err
}

func (c *countingTask) Name() string { return "counting" }

func TestEveryKeepsRunningAfterFailure(t *testing.T) {
	task := &countingTask{err: errors.New("boom")}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		schedule.Every(ctx, time.Millisecond, task, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return task.runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Every did not return after cancel")
	}
}
