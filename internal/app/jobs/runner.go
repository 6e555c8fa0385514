package jobs

import (
	"context"
	"time"

	"github.com/fitdesk/coachpay/internal/app/service/billing"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/logctx"
	"github.com/fitdesk/coachpay/pkg/metrics"
	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	JobLifecycleSweep     = "lifecycle_sweep"
	JobMonthlyAggregation = "monthly_aggregation"
)

// Runner owns the scheduled jobs and the run locks that keep them from
// overlapping themselves. Manual triggers from the admin API go through the
// same Run* entry points, so they contend on the same locks as cron.
type Runner struct {
	cfg  *config.Config
	db   *gorm.DB
	log  *zap.SugaredLogger
	bill *billing.Service
	stmt *statement.Service

	cron  *cron.Cron
	bpDur *prometheus.HistogramVec
}

func NewRunner(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, bill *billing.Service, stmt *statement.Service) *Runner {
	bpDur := metrics.NewMetric(metrics.MetricsBusinessProcess, "jobs").(*prometheus.HistogramVec)
	if err := prometheus.Register(bpDur); err != nil {
		log.Warnw("business process metric registration failed", "err", err)
	}
	return &Runner{
		cfg:   cfg,
		db:    db,
		log:   log,
		bill:  bill,
		stmt:  stmt,
		cron:  cron.New(),
		bpDur: bpDur,
	}
}

// RunSweep executes one lifecycle sweep under the daily run lock.
func (r *Runner) RunSweep(ctx context.Context, actor types.Actor) (*billing.SweepResult, error) {
	period := time.Now().Format(time.DateOnly)
	token, err := r.acquireLock(ctx, JobLifecycleSweep, period)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, JobLifecycleSweep, period, token)

	start := time.Now()
	result, err := r.bill.Sweep(ctx, actor)
	r.bpDur.WithLabelValues(JobLifecycleSweep, period).Observe(metrics.MillisecondsSince(start))
	return result, err
}

// RunAggregation executes one monthly aggregation under the per-period run
// lock. An empty period means the current month.
func (r *Runner) RunAggregation(ctx context.Context, period string) (*statement.Summary, error) {
	if period == "" {
		period = statement.CurrentPeriod()
	}
	token, err := r.acquireLock(ctx, JobMonthlyAggregation, period)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, JobMonthlyAggregation, period, token)

	start := time.Now()
	summary, err := r.stmt.Run(ctx, period)
	r.bpDur.WithLabelValues(JobMonthlyAggregation, period).Observe(metrics.MillisecondsSince(start))
	return summary, err
}

func (r *Runner) schedule() error {
	_, err := r.cron.AddFunc(r.cfg.Jobs.SweepCron, func() {
		ctx := logctx.NewCtx(context.Background(), r.log.With("job", JobLifecycleSweep))
		if _, err := r.RunSweep(ctx, types.SystemActor(JobLifecycleSweep)); err != nil {
			logctx.FromCtx(ctx, r.log).Errorw("scheduled lifecycle sweep failed", "err", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = r.cron.AddFunc(r.cfg.Jobs.AggregationCron, func() {
		// Runs shortly after month start, so the aggregation targets the
		// month that just closed.
		period := time.Now().AddDate(0, -1, 0).Format("2006-01")
		ctx := logctx.NewCtx(context.Background(), r.log.With("job", JobMonthlyAggregation))
		if _, err := r.RunAggregation(ctx, period); err != nil {
			logctx.FromCtx(ctx, r.log).Errorw("scheduled monthly aggregation failed", "err", err, "period", period)
		}
	})
	return err
}

func registerScheduler(lc fx.Lifecycle, r *Runner) error {
	if err := r.schedule(); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			r.cron.Start()
			r.log.Infow("job scheduler started",
				"sweep_cron", r.cfg.Jobs.SweepCron,
				"aggregation_cron", r.cfg.Jobs.AggregationCron,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := r.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

var Module = fx.Options(
	fx.Provide(NewRunner),
	fx.Invoke(registerScheduler),
)
