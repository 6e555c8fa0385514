package statement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	"github.com/fitdesk/coachpay/internal/app/service/exemption"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/logctx"
	"github.com/fitdesk/coachpay/pkg/tool"
	"github.com/fitdesk/coachpay/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStatementPaid means a recompute targeted a statement already
	// marked paid. Paid statements are immutable; the conflict is reported,
	// never silently overwritten.
	ErrStatementPaid = errors.New("statement already paid")
	// ErrStatementNotFound is returned for unknown (staff, period) pairs.
	ErrStatementNotFound = errors.New("statement not found")
	// ErrInvalidPeriod names a period that is not YYYY-MM.
	ErrInvalidPeriod = errors.New("invalid period")
)

// Summary is what one aggregation run reports back to the operator.
type Summary struct {
	Period           string        `json:"period"`
	CoachesProcessed int           `json:"coaches_processed"`
	GrossRevenue     types.Money   `json:"gross_revenue"`
	DiscountsApplied types.Money   `json:"discounts_applied"`
	NetCollected     types.Money   `json:"net_collected"`
	TotalCoachPayout types.Money   `json:"total_coach_payout"`
	Errors           []EntityError `json:"errors,omitempty"`
}

// Service is the monthly payment aggregator: it folds qualifying
// subscriptions and add-on purchases into one immutable statement per staff
// member per period.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
	cat *catalog.Service
	ex  *exemption.Service
	rec *audit.Recorder
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, cat *catalog.Service, ex *exemption.Service, rec *audit.Recorder) *Service {
	return &Service{cfg: cfg, db: db, log: log, cat: cat, ex: ex, rec: rec}
}

// CurrentPeriod returns the implicit period for on-demand runs.
func CurrentPeriod() string {
	return time.Now().Format("2006-01")
}

func periodRange(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// Run computes and persists statements for every staff member with activity
// in the period. Safe to re-trigger: unpaid statements are recomputed in
// place, paid ones are left untouched and reported as conflicts, and each
// per-staff write is independently atomic so cancellation mid-run leaves a
// consistent partial set.
func (s *Service) Run(ctx context.Context, period string) (*Summary, error) {
	if period == "" {
		period = CurrentPeriod()
	}
	start, end, err := periodRange(period)
	if err != nil {
		return nil, err
	}

	// Bulk fetch, once per run. Rule or price edits between runs always
	// take effect because nothing here outlives the run.
	snapshot, err := s.cat.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	exempt, err := s.ex.ExemptSet(ctx)
	if err != nil {
		return nil, err
	}

	var subs []*models.Subscription
	err = s.db.WithContext(ctx).
		Where("status IN ?", []types.SubscriptionStatus{types.SubscriptionStatusActive, types.SubscriptionStatusPastDue}).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	var purchases []*models.AddonPurchase
	err = s.db.WithContext(ctx).
		Where("purchase_at >= ? AND purchase_at < ?", start, end).
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load add-on purchases: %w", err)
	}

	in := &runInputs{
		now:          time.Now(),
		subs:         subs,
		purchases:    purchases,
		snapshot:     snapshot,
		exempt:       exempt,
		creditExempt: s.cfg.Payout.CreditExempt,
	}
	totals, entityErrs := in.aggregate()

	summary := &Summary{Period: period, Errors: entityErrs}
	computedAt := time.Now()

	// Statements for different staff members are independent; writes to one
	// (staff, period) key stay serialized inside persistStatement's
	// transaction.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	workers := s.cfg.Payout.Workers
	if workers <= 0 {
		// SetLimit(0) would block every Go call forever.
		workers = 8
	}
	g.SetLimit(workers)

	staffIDs := make([]string, 0, len(totals))
	for staffID := range totals {
		staffIDs = append(staffIDs, staffID)
	}
	sort.Strings(staffIDs)

	for _, staffID := range staffIDs {
		t := totals[staffID]
		g.Go(func() error {
			err := s.persistStatement(gctx, staffID, period, t, computedAt)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrStatementPaid):
				summary.Errors = append(summary.Errors, EntityError{
					StaffID: staffID,
					Reason:  fmt.Sprintf("statement for period %s already paid; recompute refused", period),
				})
			case err != nil:
				summary.Errors = append(summary.Errors, EntityError{StaffID: staffID, Reason: err.Error()})
			default:
				summary.CoachesProcessed++
				summary.GrossRevenue += t.GrossRevenue
				summary.DiscountsApplied += t.DiscountsApplied
				summary.NetCollected += t.NetCollected
				summary.TotalCoachPayout += t.BasePayout + t.AddonPayout
			}
			// Cancellation is the only error worth stopping the group for;
			// per-staff failures are partial-success material.
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	logctx.FromCtx(ctx, s.log).Infow("monthly aggregation finished",
		"period", period,
		"coaches_processed", summary.CoachesProcessed,
		"gross_revenue", summary.GrossRevenue,
		"net_collected", summary.NetCollected,
		"total_coach_payout", summary.TotalCoachPayout,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

// persistStatement writes one (staff, period) statement atomically. An
// existing unpaid row is overwritten in place so recomputation reflects rule
// changes; a paid row is immutable and yields ErrStatementPaid.
func (s *Service) persistStatement(ctx context.Context, staffID, period string, t *staffTotals, computedAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PayoutStatement
		err := tx.Where("staff_id = ? AND period = ?", staffID, period).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load statement: %w", err)
		}
		if err == nil && existing.IsPaid {
			return fmt.Errorf("%w: staff %s period %s", ErrStatementPaid, staffID, period)
		}

		st := &models.PayoutStatement{
			ID:               tool.GenerateUUIDV7(),
			StaffID:          staffID,
			Period:           period,
			ClientCounts:     datatypes.NewJSONType(t.ClientCounts),
			GrossRevenue:     t.GrossRevenue,
			DiscountsApplied: t.DiscountsApplied,
			NetCollected:     t.NetCollected,
			BasePayout:       t.BasePayout,
			AddonPayout:      t.AddonPayout,
			TotalPayout:      t.BasePayout + t.AddonPayout,
			UsedFallbackRule: t.UsedFallbackRule,
			ComputedAt:       computedAt,
		}
		if existing.ID != "" {
			st.ID = existing.ID
			st.CreatedAt = existing.CreatedAt
			return s.overwriteUnpaid(tx, st)
		}
		if err := tx.Create(st).Error; err != nil {
			return fmt.Errorf("failed to save statement: %w", err)
		}
		return nil
	})
}

// overwriteUnpaid rewrites an existing statement row. The unpaid guard lives
// in the UPDATE itself, not in a prior read, so a MarkPaid committing on
// another connection between the read and this write loses nothing: the
// WHERE matches zero rows and the recompute is refused.
func (s *Service) overwriteUnpaid(tx *gorm.DB, st *models.PayoutStatement) error {
	res := tx.Model(&models.PayoutStatement{}).
		Where("id = ? AND is_paid = ?", st.ID, false).
		Select("*").Omit("id", "created_at").
		Updates(st)
	if res.Error != nil {
		return fmt.Errorf("failed to save statement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: staff %s period %s", ErrStatementPaid, st.StaffID, st.Period)
	}
	return nil
}

// MarkPaid freezes a statement. Marking an already-paid statement again is
// a no-op. The action is audited with before/after values.
func (s *Service) MarkPaid(ctx context.Context, actor types.Actor, staffID, period string) (*models.PayoutStatement, error) {
	var result *models.PayoutStatement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st models.PayoutStatement
		if err := tx.Where("staff_id = ? AND period = ?", staffID, period).First(&st).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: staff %s period %s", ErrStatementNotFound, staffID, period)
			}
			return fmt.Errorf("failed to load statement: %w", err)
		}
		if st.IsPaid {
			result = &st
			return nil
		}

		// Only the paid columns change, so a recompute committing between the
		// read above and this write keeps its totals.
		before := st
		now := time.Now()
		res := tx.Model(&models.PayoutStatement{}).
			Where("id = ? AND is_paid = ?", st.ID, false).
			Updates(map[string]any{"is_paid": true, "paid_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to mark statement paid: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent marker got there first; return the row as it is.
			if err := tx.Where("id = ?", st.ID).First(&st).Error; err != nil {
				return fmt.Errorf("failed to load statement: %w", err)
			}
			result = &st
			return nil
		}
		st.IsPaid = true
		st.PaidAt = &now
		result = &st

		return s.rec.Record(ctx, tx, actor, "statement_mark_paid", "payout_statement", st.ID, &before, &st)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ListRequest struct {
	Period  string                `json:"period"`
	StaffID string                `json:"staff_id"`
	Filters []*types.CommonFilter `json:"filters"`
}

// filtersWhere wraps a list of filters to a single clause.Expression
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

// List returns statements for a period, optionally narrowed to one staff
// member and further filtered by generic column filters.
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.PayoutStatement, error) {
	if req == nil {
		req = &ListRequest{}
	}
	q := s.db.WithContext(ctx).Model(&models.PayoutStatement{})
	if req.Period != "" {
		q = q.Where("period = ?", req.Period)
	}
	if req.StaffID != "" {
		q = q.Where("staff_id = ?", req.StaffID)
	}
	if len(req.Filters) > 0 {
		q = q.Where(filtersWhere{filters: req.Filters})
	}
	var items []*models.PayoutStatement
	if err := q.Order("period desc, staff_id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return items, nil
}
