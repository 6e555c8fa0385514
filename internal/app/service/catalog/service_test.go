package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitdesk/coachpay/internal/app/service/audit"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CatalogEntry{},
		&models.PriceRecord{},
		&models.PayoutRule{},
		&models.AuditEntry{},
	))

	log := zap.NewNop().Sugar()
	cfg := &config.Config{Payout: config.PayoutConfig{DefaultPercent: 70}}
	return NewService(cfg, db, log, audit.NewRecorder(db, log)), db
}

func seedEntry(t *testing.T, db *gorm.DB, id string, category types.ServiceCategory) {
	t.Helper()
	require.NoError(t, db.Create(&models.CatalogEntry{
		ID: id, DisplayName: id, Category: category, Active: true,
	}).Error)
}

func adminActor() types.Actor {
	return types.Actor{ID: "admin-1", Type: types.ActorTypeAdmin}
}

func TestUpsertPrice_SupersedesPreviousRecord(t *testing.T) {
	svc, db := newTestService(t)
	seedEntry(t, db, "svc-team", types.ServiceCategoryTeam)

	require.NoError(t, svc.UpsertPrice(context.Background(), adminActor(), "svc-team", 10000))
	require.NoError(t, svc.UpsertPrice(context.Background(), adminActor(), "svc-team", 12000))

	price, err := svc.ActivePrice(context.Background(), "svc-team")
	require.NoError(t, err)
	require.EqualValues(t, 12000, price)

	// old record survives, deactivated
	var records []*models.PriceRecord
	require.NoError(t, db.Where("item_id = ?", "svc-team").Order("effective_at").Find(&records).Error)
	require.Len(t, records, 2)
	require.False(t, records[0].Active)
	require.True(t, records[1].Active)

	var entries []*models.AuditEntry
	require.NoError(t, db.Where("action = ?", "price_upsert").Find(&entries).Error)
	require.Len(t, entries, 2)
}

func TestUpsertPrice_UnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpsertPrice(context.Background(), adminActor(), "ghost", 100)
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestUpsertPrice_RejectsNegative(t *testing.T) {
	svc, db := newTestService(t)
	seedEntry(t, db, "svc-team", types.ServiceCategoryTeam)

	err := svc.UpsertPrice(context.Background(), adminActor(), "svc-team", -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertRule_Validation(t *testing.T) {
	svc, db := newTestService(t)
	seedEntry(t, db, "svc-team", types.ServiceCategoryTeam)

	cases := []struct {
		name string
		rule *models.PayoutRule
	}{
		{"missing item", &models.PayoutRule{Kind: types.RuleKindPercent, Value: 50}},
		{"bad kind", &models.PayoutRule{ItemID: "svc-team", Kind: "ratio", Value: 50}},
		{"negative value", &models.PayoutRule{ItemID: "svc-team", Kind: types.RuleKindFixed, Value: -5}},
		{"percent over 100", &models.PayoutRule{ItemID: "svc-team", Kind: types.RuleKindPercent, Value: 101}},
		{"bad fee kind", &models.PayoutRule{ItemID: "svc-team", Kind: types.RuleKindPercent, Value: 50, PlatformFeeKind: "cut"}},
		{"bad recipient", &models.PayoutRule{ItemID: "svc-team", Kind: types.RuleKindPercent, Value: 50, Recipient: "manager"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, svc.UpsertRule(context.Background(), adminActor(), tc.rule), ErrInvalidInput)
		})
	}

	err := svc.UpsertRule(context.Background(), adminActor(), &models.PayoutRule{
		ItemID: "ghost", Kind: types.RuleKindPercent, Value: 50,
	})
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestUpsertRule_ReplacesAndAudits(t *testing.T) {
	svc, db := newTestService(t)
	seedEntry(t, db, "svc-team", types.ServiceCategoryTeam)

	require.NoError(t, svc.UpsertRule(context.Background(), adminActor(), &models.PayoutRule{
		ItemID: "svc-team", Kind: types.RuleKindPercent, Value: 70,
	}))
	require.NoError(t, svc.UpsertRule(context.Background(), adminActor(), &models.PayoutRule{
		ItemID: "svc-team", Kind: types.RuleKindFixed, Value: 4000,
	}))

	rule, err := svc.ResolveRule(context.Background(), "svc-team")
	require.NoError(t, err)
	require.Equal(t, types.RuleKindFixed, rule.Kind)
	require.EqualValues(t, 4000, rule.Value)
	require.False(t, rule.Fallback)

	var count int64
	require.NoError(t, db.Model(&models.PayoutRule{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var entries []*models.AuditEntry
	require.NoError(t, db.Where("action = ?", "payout_rule_upsert").Order("created_at").Find(&entries).Error)
	require.Len(t, entries, 2)
	// second entry carries the superseded rule as before-state
	require.Contains(t, string(entries[1].Before), `"percent"`)
}

func TestResolveRule_FallbackFlagged(t *testing.T) {
	svc, _ := newTestService(t)

	rule, err := svc.ResolveRule(context.Background(), "unconfigured")
	require.NoError(t, err)
	require.True(t, rule.Fallback)
	require.Equal(t, types.RuleKindPercent, rule.Kind)
	require.EqualValues(t, 70, rule.Value)
}

func TestSnapshot_ResolvesActiveOnly(t *testing.T) {
	svc, db := newTestService(t)
	seedEntry(t, db, "svc-team", types.ServiceCategoryTeam)
	require.NoError(t, svc.UpsertPrice(context.Background(), adminActor(), "svc-team", 10000))
	require.NoError(t, svc.UpsertPrice(context.Background(), adminActor(), "svc-team", 9000))
	require.NoError(t, svc.UpsertRule(context.Background(), adminActor(), &models.PayoutRule{
		ItemID: "svc-team", Kind: types.RuleKindPercent, Value: 60,
	}))

	// inactive entries stay out of the snapshot
	require.NoError(t, db.Create(&models.CatalogEntry{
		ID: "svc-retired", DisplayName: "svc-retired", Category: types.ServiceCategoryTeam, Active: false,
	}).Error)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	price, ok := snap.ActivePrice("svc-team")
	require.True(t, ok)
	require.EqualValues(t, 9000, price)

	_, ok = snap.Entry("svc-retired")
	require.False(t, ok)

	require.True(t, snap.HasRule("svc-team"))
	require.False(t, snap.ResolveRule("svc-team").Fallback)
	require.True(t, snap.ResolveRule("anything-else").Fallback)
}

func TestUpsertEntry_UpdatesInPlace(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, svc.UpsertEntry(context.Background(), adminActor(), &models.CatalogEntry{
		ID: "svc-team", DisplayName: "Team Training", Category: types.ServiceCategoryTeam, Active: true,
	}))
	require.NoError(t, svc.UpsertEntry(context.Background(), adminActor(), &models.CatalogEntry{
		ID: "svc-team", DisplayName: "Team Training XL", Category: types.ServiceCategoryTeam, Active: true,
	}))

	var entry models.CatalogEntry
	require.NoError(t, db.Where("id = ?", "svc-team").First(&entry).Error)
	require.Equal(t, "Team Training XL", entry.DisplayName)

	require.ErrorIs(t, svc.UpsertEntry(context.Background(), adminActor(), &models.CatalogEntry{
		ID: "x", Category: "mystery",
	}), ErrInvalidInput)
}
