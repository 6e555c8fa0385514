package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/exemption"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for unknown subscription ids.
	ErrNotFound = errors.New("subscription not found")
	// ErrConcurrencyConflict means another transition won the version race;
	// the caller retries against the refreshed row.
	ErrConcurrencyConflict = errors.New("concurrent subscription update")
	// ErrIntegrityFault marks malformed persisted state (for example an
	// active subscription without a billing date). Reported, not repaired.
	ErrIntegrityFault = errors.New("subscription data integrity fault")
	// ErrInvalidInput names a rejected request field.
	ErrInvalidInput = errors.New("invalid input")
)

// Service drives the per-subscription billing lifecycle: pending, active,
// past_due (with its computed grace sub-phase) and inactive.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
	rec *audit.Recorder
	ex  *exemption.Service
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, rec *audit.Recorder, ex *exemption.Service) *Service {
	return &Service{cfg: cfg, db: db, log: log, rec: rec, ex: ex}
}

func (s *Service) load(ctx context.Context, tx *gorm.DB, subID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := tx.WithContext(ctx).Where("id = ?", subID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, subID)
		}
		return nil, fmt.Errorf("failed to load subscription %s: %w", subID, err)
	}
	return &sub, nil
}

// applyTransition persists after with an optimistic version check against
// before and audits the change, all inside tx. The column map is written
// explicitly so nil values (cleared past_due_since) are not skipped.
func (s *Service) applyTransition(ctx context.Context, tx *gorm.DB, actor types.Actor, action types.LifecycleAction, before, after *models.Subscription) error {
	res := tx.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND version = ?", before.ID, before.Version).
		Updates(map[string]any{
			"status":                  after.Status,
			"staff_id":                after.StaffID,
			"next_billing_date":       after.NextBillingDate,
			"past_due_since":          after.PastDueSince,
			"grace_period_days":       after.GracePeriodDays,
			"billing_amount_override": after.BillingAmountOverride,
			"version":                 before.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update subscription %s: %w", before.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: subscription %s", ErrConcurrencyConflict, before.ID)
	}
	after.Version = before.Version + 1

	return s.rec.Record(ctx, tx, actor, string(action), "subscription", before.ID, before, after)
}

// GetSubscription returns one subscription by id.
func (s *Service) GetSubscription(ctx context.Context, subID string) (*models.Subscription, error) {
	return s.load(ctx, s.db, subID)
}

// ListSubscriptions returns subscriptions filtered by status and/or
// subscriber, newest first, with offset pagination.
func (s *Service) ListSubscriptions(ctx context.Context, status types.SubscriptionStatus, subscriberID string, offset, limit int) ([]*models.Subscription, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Model(&models.Subscription{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if subscriberID != "" {
		q = q.Where("subscriber_id = ?", subscriberID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var subs []*models.Subscription
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&subs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, total, nil
}
