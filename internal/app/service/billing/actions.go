package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/logctx"
	"github.com/fitdesk/coachpay/pkg/tool"
	"github.com/fitdesk/coachpay/pkg/types"

	"gorm.io/gorm"
)

// OnboardRequest creates a new subscription in pending state; it stays
// there until the first payment is recorded.
type OnboardRequest struct {
	SubscriberID          string       `json:"subscriber_id"`
	ServiceID             string       `json:"service_id"`
	StaffID               *string      `json:"staff_id"`
	GracePeriodDays       int          `json:"grace_period_days"`
	BillingAmountOverride *types.Money `json:"billing_amount_override"`
}

func (s *Service) Onboard(ctx context.Context, actor types.Actor, req *OnboardRequest) (*models.Subscription, error) {
	if req == nil || req.SubscriberID == "" {
		return nil, fmt.Errorf("%w: subscriber_id is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return nil, fmt.Errorf("%w: service_id is required", ErrInvalidInput)
	}
	if req.BillingAmountOverride != nil && *req.BillingAmountOverride < 0 {
		return nil, fmt.Errorf("%w: billing_amount_override must be non-negative", ErrInvalidInput)
	}
	grace := req.GracePeriodDays
	if grace <= 0 {
		grace = s.cfg.Billing.GracePeriodDays
	}

	sub := &models.Subscription{
		ID:                    tool.GenerateUUIDV7(),
		SubscriberID:          req.SubscriberID,
		ServiceID:             req.ServiceID,
		StaffID:               req.StaffID,
		Status:                types.SubscriptionStatusPending,
		GracePeriodDays:       grace,
		BillingAmountOverride: req.BillingAmountOverride,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return s.rec.Record(ctx, tx, actor, string(types.LifecycleActionOnboarding), "subscription", sub.ID, nil, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// paymentAudit is the audit after-payload for recorded payments; it keeps
// the operator's amount and note next to the resulting state.
type paymentAudit struct {
	Subscription *models.Subscription `json:"subscription"`
	Amount       types.Money          `json:"amount"`
	Note         string               `json:"note,omitempty"`
}

// RecordPayment applies a confirmed payment (gateway-confirmed or manual)
// to a subscription. Any non-terminal direction is accepted: pending and
// past_due and inactive all recover to active, and a payment on an already
// active subscription advances the cycle — re-application is idempotent in
// direction, never an error.
func (s *Service) RecordPayment(ctx context.Context, actor types.Actor, subID string, amount types.Money, note string) (*models.Subscription, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative, got %d", ErrInvalidInput, amount)
	}

	var after *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.load(ctx, tx, subID)
		if err != nil {
			return err
		}

		action := types.LifecycleActionPayment
		switch before.Status {
		case types.SubscriptionStatusPending:
			action = types.LifecycleActionFirstPayment
		case types.SubscriptionStatusActive, types.SubscriptionStatusPastDue, types.SubscriptionStatusInactive:
			if actor.Type == types.ActorTypeAdmin {
				action = types.LifecycleActionManualPayment
			}
		}

		next := time.Now().Add(s.cfg.CycleDuration())
		cp := *before
		after = &cp
		after.Status = types.SubscriptionStatusActive
		after.NextBillingDate = &next
		after.PastDueSince = nil

		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND version = ?", before.ID, before.Version).
			Updates(map[string]any{
				"status":            after.Status,
				"next_billing_date": after.NextBillingDate,
				"past_due_since":    nil,
				"version":           before.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update subscription %s: %w", before.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: subscription %s", ErrConcurrencyConflict, before.ID)
		}
		after.Version = before.Version + 1

		return s.rec.Record(ctx, tx, actor, string(action), "subscription", before.ID, before,
			&paymentAudit{Subscription: after, Amount: amount, Note: note})
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}

// ExtendGrace is an admin-only override: it widens the grace window and/or
// pushes past_due_since forward without changing state.
func (s *Service) ExtendGrace(ctx context.Context, actor types.Actor, subID string, extraDays int) (*models.Subscription, error) {
	if extraDays <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidInput, extraDays)
	}

	var after *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.load(ctx, tx, subID)
		if err != nil {
			return err
		}

		cp := *before
		after = &cp
		after.GracePeriodDays = before.GracePeriodDays + extraDays
		return s.applyTransition(ctx, tx, actor, types.LifecycleActionGraceExtension, before, after)
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}

// ToggleExemption flips the subscriber's payment-exempt flag. Turning it on
// force-recovers any past_due or inactive subscription of that subscriber to
// active (contractual override). Turning it off changes nothing immediately:
// the subscription stays active until its next natural billing evaluation,
// so removing an exemption never instantly punishes the subscriber.
func (s *Service) ToggleExemption(ctx context.Context, actor types.Actor, subscriberID string) (bool, error) {
	if subscriberID == "" {
		return false, fmt.Errorf("%w: subscriber_id is required", ErrInvalidInput)
	}

	var nowExempt bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before *models.ExemptionFlag
		flag := models.ExemptionFlag{SubscriberID: subscriberID}
		err := tx.Where("subscriber_id = ?", subscriberID).First(&flag).Error
		switch {
		case err == nil:
			cp := flag
			before = &cp
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to load exemption flag: %w", err)
		}

		flag.Exempt = !flag.Exempt
		nowExempt = flag.Exempt
		if err := tx.Save(&flag).Error; err != nil {
			return fmt.Errorf("failed to save exemption flag: %w", err)
		}

		action := types.LifecycleActionExemptionOff
		if flag.Exempt {
			action = types.LifecycleActionExemptionOn
		}
		if err := s.rec.Record(ctx, tx, actor, string(action), "exemption_flag", subscriberID, before, &flag); err != nil {
			return err
		}

		if !flag.Exempt {
			return nil
		}

		// Contractual override: decayed subscriptions recover immediately.
		var subs []*models.Subscription
		if err := tx.Where("subscriber_id = ? AND status IN ?", subscriberID,
			[]types.SubscriptionStatus{types.SubscriptionStatusPastDue, types.SubscriptionStatusInactive}).
			Find(&subs).Error; err != nil {
			return fmt.Errorf("failed to load subscriber subscriptions: %w", err)
		}
		for _, sub := range subs {
			cp := *sub
			cp.Status = types.SubscriptionStatusActive
			cp.PastDueSince = nil
			if err := s.applyTransition(ctx, tx, actor, action, sub, &cp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return nowExempt, nil
}

// SendReminder records a payment-reminder request. Delivery is an external
// concern; the core only logs the handoff and audits the action.
func (s *Service) SendReminder(ctx context.Context, actor types.Actor, subID, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := s.load(ctx, tx, subID)
		if err != nil {
			return err
		}

		entry := &models.ReminderLog{
			ID:             tool.GenerateUUIDV7(),
			SubscriptionID: sub.ID,
			SubscriberID:   sub.SubscriberID,
			RequestedBy:    actor.ID,
			Note:           note,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create reminder log: %w", err)
		}

		logctx.FromCtx(ctx, s.log).Infow("payment reminder requested",
			"subscription_id", sub.ID, "subscriber_id", sub.SubscriberID, "status", sub.Status)

		return s.rec.Record(ctx, tx, actor, "reminder_sent", "subscription", sub.ID, nil, entry)
	})
}
