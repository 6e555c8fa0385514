package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/exemption"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/tool"
	"github.com/fitdesk/coachpay/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Subscription{},
		&models.ExemptionFlag{},
		&models.AuditEntry{},
		&models.ReminderLog{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		Billing: config.BillingConfig{CycleDays: 30, GracePeriodDays: 7},
	}
	svc := NewService(cfg, db, log, audit.NewRecorder(db, log), exemption.NewService(db, log))
	return svc, db
}

func adminActor() types.Actor {
	return types.Actor{ID: "admin-1", Type: types.ActorTypeAdmin}
}

func auditActions(t *testing.T, db *gorm.DB, targetID string) []string {
	t.Helper()
	var entries []*models.AuditEntry
	require.NoError(t, db.Where("target_id = ?", targetID).Order("created_at").Find(&entries).Error)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}

func TestOnboard_CreatesPendingSubscription(t *testing.T) {
	svc, db := newTestService(t)

	sub, err := svc.Onboard(context.Background(), adminActor(), &OnboardRequest{
		SubscriberID: "client-1",
		ServiceID:    "svc-team",
	})
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusPending, sub.Status)
	require.Nil(t, sub.NextBillingDate)
	require.Equal(t, 7, sub.GracePeriodDays)

	require.Equal(t, []string{"onboarding"}, auditActions(t, db, sub.ID))
}

func TestOnboard_RejectsNegativeOverride(t *testing.T) {
	svc, _ := newTestService(t)

	neg := types.Money(-1)
	_, err := svc.Onboard(context.Background(), adminActor(), &OnboardRequest{
		SubscriberID:          "client-1",
		ServiceID:             "svc-team",
		BillingAmountOverride: &neg,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordPayment_FirstPaymentActivates(t *testing.T) {
	svc, db := newTestService(t)

	sub, err := svc.Onboard(context.Background(), adminActor(), &OnboardRequest{
		SubscriberID: "client-1",
		ServiceID:    "svc-team",
	})
	require.NoError(t, err)

	after, err := svc.RecordPayment(context.Background(), adminActor(), sub.ID, 10000, "")
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, after.Status)
	require.NotNil(t, after.NextBillingDate)
	require.WithinDuration(t, time.Now().Add(30*24*time.Hour), *after.NextBillingDate, time.Minute)

	require.Equal(t, []string{"onboarding", "first_payment"}, auditActions(t, db, sub.ID))
}

func TestRecordPayment_PastDueRecovers(t *testing.T) {
	svc, db := newTestService(t)

	past := time.Now().Add(-3 * 24 * time.Hour)
	sub := &models.Subscription{
		ID:              tool.GenerateUUIDV7(),
		SubscriberID:    "client-1",
		ServiceID:       "svc-team",
		Status:          types.SubscriptionStatusPastDue,
		PastDueSince:    &past,
		GracePeriodDays: 7,
	}
	require.NoError(t, db.Create(sub).Error)

	after, err := svc.RecordPayment(context.Background(), adminActor(), sub.ID, 10000, "bank transfer")
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, after.Status)
	require.Nil(t, after.PastDueSince)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&stored).Error)
	require.Nil(t, stored.PastDueSince)
	require.Equal(t, int64(1), stored.Version)

	require.Equal(t, []string{"manual_payment"}, auditActions(t, db, sub.ID))
}

func TestRecordPayment_UnknownSubscription(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordPayment(context.Background(), adminActor(), "nope", 100, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyTransition_VersionConflict(t *testing.T) {
	svc, db := newTestService(t)

	sub := &models.Subscription{
		ID:           tool.GenerateUUIDV7(),
		SubscriberID: "client-1",
		ServiceID:    "svc-team",
		Status:       types.SubscriptionStatusActive,
		Version:      3,
	}
	require.NoError(t, db.Create(sub).Error)

	stale := *sub
	stale.Version = 2
	after := stale
	after.Status = types.SubscriptionStatusPastDue

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.applyTransition(context.Background(), tx, adminActor(), types.LifecycleActionSweepPastDue, &stale, &after)
	})
	require.ErrorIs(t, err, ErrConcurrencyConflict)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
}

func TestExtendGrace_WidensWindow(t *testing.T) {
	svc, db := newTestService(t)

	past := time.Now().Add(-6 * 24 * time.Hour)
	sub := &models.Subscription{
		ID:              tool.GenerateUUIDV7(),
		SubscriberID:    "client-1",
		ServiceID:       "svc-team",
		Status:          types.SubscriptionStatusPastDue,
		PastDueSince:    &past,
		GracePeriodDays: 7,
	}
	require.NoError(t, db.Create(sub).Error)

	after, err := svc.ExtendGrace(context.Background(), adminActor(), sub.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 12, after.GracePeriodDays)
	require.Equal(t, types.SubscriptionStatusPastDue, after.Status)

	_, err = svc.ExtendGrace(context.Background(), adminActor(), sub.ID, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	require.Equal(t, []string{"grace_extension"}, auditActions(t, db, sub.ID))
}

func TestToggleExemption_OnRecoversDecayed(t *testing.T) {
	svc, db := newTestService(t)

	past := time.Now().Add(-20 * 24 * time.Hour)
	sub := &models.Subscription{
		ID:              tool.GenerateUUIDV7(),
		SubscriberID:    "client-1",
		ServiceID:       "svc-team",
		Status:          types.SubscriptionStatusInactive,
		PastDueSince:    &past,
		GracePeriodDays: 7,
	}
	require.NoError(t, db.Create(sub).Error)

	exempt, err := svc.ToggleExemption(context.Background(), adminActor(), "client-1")
	require.NoError(t, err)
	require.True(t, exempt)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
	require.Nil(t, stored.PastDueSince)
}

func TestToggleExemption_OffLeavesStateAlone(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&models.ExemptionFlag{SubscriberID: "client-1", Exempt: true}).Error)
	sub := &models.Subscription{
		ID:           tool.GenerateUUIDV7(),
		SubscriberID: "client-1",
		ServiceID:    "svc-team",
		Status:       types.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)

	exempt, err := svc.ToggleExemption(context.Background(), adminActor(), "client-1")
	require.NoError(t, err)
	require.False(t, exempt)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
	require.Equal(t, int64(0), stored.Version)
}

func TestSendReminder_WritesLogAndAudit(t *testing.T) {
	svc, db := newTestService(t)

	sub := &models.Subscription{
		ID:           tool.GenerateUUIDV7(),
		SubscriberID: "client-1",
		ServiceID:    "svc-team",
		Status:       types.SubscriptionStatusPastDue,
	}
	require.NoError(t, db.Create(sub).Error)

	require.NoError(t, svc.SendReminder(context.Background(), adminActor(), sub.ID, "second notice"))

	var logs []*models.ReminderLog
	require.NoError(t, db.Where("subscription_id = ?", sub.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "admin-1", logs[0].RequestedBy)

	require.Equal(t, []string{"reminder_sent"}, auditActions(t, db, sub.ID))
}

func TestListSubscriptions_FiltersByStatus(t *testing.T) {
	svc, db := newTestService(t)

	for i, st := range []types.SubscriptionStatus{
		types.SubscriptionStatusActive,
		types.SubscriptionStatusActive,
		types.SubscriptionStatusInactive,
	} {
		require.NoError(t, db.Create(&models.Subscription{
			ID:           tool.GenerateUUIDV7(),
			SubscriberID: fmt.Sprintf("client-%d", i),
			ServiceID:    "svc-team",
			Status:       st,
		}).Error)
	}

	subs, total, err := svc.ListSubscriptions(context.Background(), types.SubscriptionStatusActive, "", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, subs, 2)

	subs, total, err = svc.ListSubscriptions(context.Background(), "", "client-2", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, types.SubscriptionStatusInactive, subs[0].Status)
}
