package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/logctx"
	"github.com/fitdesk/coachpay/pkg/types"

	"gorm.io/gorm"
)

// SweepResult summarizes one lifecycle sweep. Faults carry enough context
// to fix the offending rows; the sweep never repairs data on its own.
type SweepResult struct {
	Scanned       int          `json:"scanned"`
	MarkedPastDue int          `json:"marked_past_due"`
	Deactivated   int          `json:"deactivated"`
	Skipped       int          `json:"skipped"`
	Faults        []SweepFault `json:"faults,omitempty"`
}

// SweepFault pairs the offending row with its error. Err keeps the sentinel
// chain (ErrIntegrityFault, ErrConcurrencyConflict) inspectable; Reason is
// the same error flattened for the response body.
type SweepFault struct {
	SubscriptionID string `json:"subscription_id"`
	Reason         string `json:"reason"`
	Err            error  `json:"-"`
}

func newSweepFault(subID string, err error) SweepFault {
	return SweepFault{SubscriptionID: subID, Reason: err.Error(), Err: err}
}

// Sweep applies time-driven decay across all subscriptions: active rows past
// their billing date become past_due, past_due rows beyond their grace window
// become inactive. Payment-exempt subscribers are skipped entirely. The sweep
// is idempotent — re-running it over already-decayed rows is a no-op — and a
// version race on any one row is recorded as a fault, not fatal, since the
// next sweep will see the refreshed state.
func (s *Service) Sweep(ctx context.Context, actor types.Actor) (*SweepResult, error) {
	now := time.Now()
	result := &SweepResult{}

	exempt, err := s.ex.ExemptSet(ctx)
	if err != nil {
		return nil, err
	}

	var subs []*models.Subscription
	err = s.db.WithContext(ctx).
		Where("status IN ?", []types.SubscriptionStatus{types.SubscriptionStatusActive, types.SubscriptionStatusPastDue}).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions for sweep: %w", err)
	}
	result.Scanned = len(subs)

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if exempt[sub.SubscriberID] {
			result.Skipped++
			continue
		}

		switch sub.Status {
		case types.SubscriptionStatusActive:
			if sub.NextBillingDate == nil {
				result.Faults = append(result.Faults, newSweepFault(sub.ID,
					fmt.Errorf("%w: active subscription has no next_billing_date", ErrIntegrityFault)))
				continue
			}
			if now.Before(*sub.NextBillingDate) {
				continue
			}
			if err := s.sweepTransition(ctx, actor, sub, func(after *models.Subscription) {
				after.Status = types.SubscriptionStatusPastDue
				due := now
				after.PastDueSince = &due
			}, types.LifecycleActionSweepPastDue); err != nil {
				result.Faults = append(result.Faults, newSweepFault(sub.ID, err))
				continue
			}
			result.MarkedPastDue++

		case types.SubscriptionStatusPastDue:
			if sub.PastDueSince == nil {
				result.Faults = append(result.Faults, newSweepFault(sub.ID,
					fmt.Errorf("%w: past_due subscription has no past_due_since", ErrIntegrityFault)))
				continue
			}
			if !sub.GraceExpired(now) {
				continue
			}
			if err := s.sweepTransition(ctx, actor, sub, func(after *models.Subscription) {
				after.Status = types.SubscriptionStatusInactive
			}, types.LifecycleActionSweepDeactivate); err != nil {
				result.Faults = append(result.Faults, newSweepFault(sub.ID, err))
				continue
			}
			result.Deactivated++
		}
	}

	logctx.FromCtx(ctx, s.log).Infow("lifecycle sweep finished",
		"scanned", result.Scanned,
		"marked_past_due", result.MarkedPastDue,
		"deactivated", result.Deactivated,
		"skipped_exempt", result.Skipped,
		"faults", len(result.Faults),
	)
	return result, nil
}

// sweepTransition applies one decay step in its own transaction so a fault
// on one subscription never rolls back the rest of the sweep.
func (s *Service) sweepTransition(ctx context.Context, actor types.Actor, before *models.Subscription, mutate func(*models.Subscription), action types.LifecycleAction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cp := *before
		mutate(&cp)
		err := s.applyTransition(ctx, tx, actor, action, before, &cp)
		if errors.Is(err, ErrConcurrencyConflict) {
			// Someone (a payment, an admin) moved the row mid-sweep; the
			// next sweep evaluates the fresh state.
			logctx.FromCtx(ctx, s.log).Warnw("sweep lost version race", "subscription_id", before.ID)
		}
		return err
	})
}
