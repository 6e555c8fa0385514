package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/logctx"
	"github.com/fitdesk/coachpay/pkg/tool"

	"gorm.io/gorm/clause"
)

// ErrRunInProgress means another instance holds the run lock for the same
// job and period.
var ErrRunInProgress = errors.New("job run already in progress")

// acquireLock claims the (job, period) run lock. The unique index on
// job_run makes a fresh claim a plain insert race; finished rows are reused
// for re-runs and unfinished rows older than the lock TTL are taken over as
// crashed.
func (r *Runner) acquireLock(ctx context.Context, jobName, period string) (string, error) {
	token := tool.GenerateUUIDV7()
	row := &models.JobRun{
		ID:        tool.GenerateUUIDV7(),
		JobName:   jobName,
		Period:    period,
		Token:     token,
		StartedAt: time.Now(),
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_name"}, {Name: "period"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return "", fmt.Errorf("failed to acquire run lock: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return token, nil
	}

	var existing models.JobRun
	if err := r.db.WithContext(ctx).Where("job_name = ? AND period = ?", jobName, period).First(&existing).Error; err != nil {
		return "", fmt.Errorf("failed to load run lock: %w", err)
	}

	switch {
	case existing.FinishedAt != nil:
		// Previous run completed; re-claim the row for this re-run.
		res = r.db.WithContext(ctx).Model(&models.JobRun{}).
			Where("id = ? AND token = ? AND finished_at IS NOT NULL", existing.ID, existing.Token).
			Updates(map[string]any{"token": token, "started_at": time.Now(), "finished_at": nil})
	case time.Since(existing.StartedAt) > r.cfg.Jobs.LockTTL:
		// Holder looks crashed; take the lock over.
		logctx.FromCtx(ctx, r.log).Warnw("taking over stale run lock",
			"job", jobName, "period", period, "started_at", existing.StartedAt)
		res = r.db.WithContext(ctx).Model(&models.JobRun{}).
			Where("id = ? AND token = ?", existing.ID, existing.Token).
			Updates(map[string]any{"token": token, "started_at": time.Now(), "finished_at": nil})
	default:
		return "", fmt.Errorf("%w: %s %s", ErrRunInProgress, jobName, period)
	}

	if res.Error != nil {
		return "", fmt.Errorf("failed to re-claim run lock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost the re-claim race to another instance.
		return "", fmt.Errorf("%w: %s %s", ErrRunInProgress, jobName, period)
	}
	return token, nil
}

// releaseLock marks the run finished. Only the token holder can release.
func (r *Runner) releaseLock(ctx context.Context, jobName, period, token string) {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&models.JobRun{}).
		Where("job_name = ? AND period = ? AND token = ?", jobName, period, token).
		Update("finished_at", &now).Error
	if err != nil {
		logctx.FromCtx(ctx, r.log).Errorw("failed to release run lock",
			"job", jobName, "period", period, "err", err)
	}
}
