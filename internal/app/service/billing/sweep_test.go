package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/tool"
	"github.com/fitdesk/coachpay/pkg/types"
)

func seedSub(t *testing.T, db *gorm.DB, subscriberID string, status types.SubscriptionStatus, nextBilling, pastDueSince *time.Time) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		ID:              tool.GenerateUUIDV7(),
		SubscriberID:    subscriberID,
		ServiceID:       "svc-team",
		Status:          status,
		NextBillingDate: nextBilling,
		PastDueSince:    pastDueSince,
		GracePeriodDays: 7,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func ts(d time.Duration) *time.Time {
	v := time.Now().Add(d)
	return &v
}

func TestSweep_MarksOverdueActivePastDue(t *testing.T) {
	svc, db := newTestService(t)

	overdue := seedSub(t, db, "client-1", types.SubscriptionStatusActive, ts(-time.Hour), nil)
	current := seedSub(t, db, "client-2", types.SubscriptionStatusActive, ts(24*time.Hour), nil)

	result, err := svc.Sweep(context.Background(), types.SystemActor("lifecycle_sweep"))
	require.NoError(t, err)
	require.Equal(t, 2, result.Scanned)
	require.Equal(t, 1, result.MarkedPastDue)
	require.Equal(t, 0, result.Deactivated)
	require.Empty(t, result.Faults)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", overdue.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusPastDue, stored.Status)
	require.NotNil(t, stored.PastDueSince)

	stored = models.Subscription{}
	require.NoError(t, db.Where("id = ?", current.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
}

func TestSweep_DeactivatesAfterGraceExpiry(t *testing.T) {
	svc, db := newTestService(t)

	// 7-day grace: one subscription one hour past the window, one an hour shy
	expired := seedSub(t, db, "client-1", types.SubscriptionStatusPastDue, nil, ts(-7*24*time.Hour-time.Hour))
	inGrace := seedSub(t, db, "client-2", types.SubscriptionStatusPastDue, nil, ts(-7*24*time.Hour+time.Hour))

	result, err := svc.Sweep(context.Background(), types.SystemActor("lifecycle_sweep"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Deactivated)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", expired.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusInactive, stored.Status)

	stored = models.Subscription{}
	require.NoError(t, db.Where("id = ?", inGrace.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusPastDue, stored.Status)
}

func TestSweep_SkipsExemptSubscribers(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&models.ExemptionFlag{SubscriberID: "client-1", Exempt: true}).Error)
	exemptSub := seedSub(t, db, "client-1", types.SubscriptionStatusActive, ts(-48*time.Hour), nil)

	result, err := svc.Sweep(context.Background(), types.SystemActor("lifecycle_sweep"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Skipped)
	require.Equal(t, 0, result.MarkedPastDue)

	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", exemptSub.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
}

func TestSweep_ReportsIntegrityFaults(t *testing.T) {
	svc, db := newTestService(t)

	broken := seedSub(t, db, "client-1", types.SubscriptionStatusActive, nil, nil)
	brokenPD := seedSub(t, db, "client-2", types.SubscriptionStatusPastDue, nil, nil)

	result, err := svc.Sweep(context.Background(), types.SystemActor("lifecycle_sweep"))
	require.NoError(t, err)
	require.Len(t, result.Faults, 2)
	for _, fault := range result.Faults {
		require.True(t, errors.Is(fault.Err, ErrIntegrityFault))
		require.Contains(t, fault.Reason, ErrIntegrityFault.Error())
	}

	// Faulted rows are reported, never mutated.
	var stored models.Subscription
	require.NoError(t, db.Where("id = ?", broken.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
	stored = models.Subscription{}
	require.NoError(t, db.Where("id = ?", brokenPD.ID).First(&stored).Error)
	require.Equal(t, types.SubscriptionStatusPastDue, stored.Status)
}

func TestSweep_Idempotent(t *testing.T) {
	svc, db := newTestService(t)

	seedSub(t, db, "client-1", types.SubscriptionStatusActive, ts(-time.Hour), nil)

	first, err := svc.Sweep(context.Background(), types.SystemActor("lifecycle_sweep"))
	require.NoError(t, err)
	require.Equal(t, 1, first.MarkedPastDue)

	second, err := svc.Sweep(context.Background(), types.SystemActor("lifecycle_sweep"))
	require.NoError(t, err)
	require.Equal(t, 0, second.MarkedPastDue)
	require.Equal(t, 0, second.Deactivated)
	require.Empty(t, second.Faults)

	var entries []*models.AuditEntry
	require.NoError(t, db.Where("action = ?", "sweep_past_due").Find(&entries).Error)
	require.Len(t, entries, 1)
}
