package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/tool"
)

func newTestRunner(t *testing.T) (*Runner, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.JobRun{}))

	cfg := &config.Config{Jobs: config.JobsConfig{LockTTL: 2 * time.Hour}}
	return &Runner{cfg: cfg, db: db, log: zap.NewNop().Sugar()}, db
}

func TestAcquireLock_Exclusive(t *testing.T) {
	r, _ := newTestRunner(t)

	token, err := r.acquireLock(context.Background(), JobMonthlyAggregation, "2026-08")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = r.acquireLock(context.Background(), JobMonthlyAggregation, "2026-08")
	require.ErrorIs(t, err, ErrRunInProgress)

	// a different period is an independent lock
	_, err = r.acquireLock(context.Background(), JobMonthlyAggregation, "2026-07")
	require.NoError(t, err)
}

func TestAcquireLock_ReacquireAfterRelease(t *testing.T) {
	r, db := newTestRunner(t)

	token, err := r.acquireLock(context.Background(), JobLifecycleSweep, "2026-08-30")
	require.NoError(t, err)
	r.releaseLock(context.Background(), JobLifecycleSweep, "2026-08-30", token)

	var row models.JobRun
	require.NoError(t, db.First(&row).Error)
	require.NotNil(t, row.FinishedAt)

	next, err := r.acquireLock(context.Background(), JobLifecycleSweep, "2026-08-30")
	require.NoError(t, err)
	require.NotEqual(t, token, next)

	// the row is reused, not duplicated
	var count int64
	require.NoError(t, db.Model(&models.JobRun{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAcquireLock_TakesOverStaleHolder(t *testing.T) {
	r, db := newTestRunner(t)

	require.NoError(t, db.Create(&models.JobRun{
		ID:        tool.GenerateUUIDV7(),
		JobName:   JobMonthlyAggregation,
		Period:    "2026-08",
		Token:     tool.GenerateUUIDV7(),
		StartedAt: time.Now().Add(-3 * time.Hour),
	}).Error)

	token, err := r.acquireLock(context.Background(), JobMonthlyAggregation, "2026-08")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var row models.JobRun
	require.NoError(t, db.First(&row).Error)
	require.Equal(t, token, row.Token)
	require.Nil(t, row.FinishedAt)
}

func TestReleaseLock_OnlyTokenHolder(t *testing.T) {
	r, db := newTestRunner(t)

	token, err := r.acquireLock(context.Background(), JobLifecycleSweep, "2026-08-30")
	require.NoError(t, err)

	r.releaseLock(context.Background(), JobLifecycleSweep, "2026-08-30", "wrong-token")
	var row models.JobRun
	require.NoError(t, db.First(&row).Error)
	require.Nil(t, row.FinishedAt)

	r.releaseLock(context.Background(), JobLifecycleSweep, "2026-08-30", token)
	require.NoError(t, db.First(&row).Error)
	require.NotNil(t, row.FinishedAt)
}
