package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/types"
)

func newTestRecorder(t *testing.T) (*Recorder, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditEntry{}))
	return NewRecorder(db, zap.NewNop().Sugar()), db
}

func actor() types.Actor {
	return types.Actor{ID: "admin-1", Type: types.ActorTypeAdmin}
}

func TestRecord_SnapshotsBeforeAndAfter(t *testing.T) {
	rec, db := newTestRecorder(t)

	type payload struct {
		Value int `json:"value"`
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return rec.Record(context.Background(), tx, actor(), "price_upsert", "price_record", "svc-team",
			&payload{Value: 100}, &payload{Value: 200})
	})
	require.NoError(t, err)

	var entry models.AuditEntry
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, "admin-1", entry.ActorID)
	require.Equal(t, types.ActorTypeAdmin, entry.ActorType)
	require.JSONEq(t, `{"value":100}`, string(entry.Before))
	require.JSONEq(t, `{"value":200}`, string(entry.After))
}

func TestRecord_NilBeforeForCreations(t *testing.T) {
	rec, db := newTestRecorder(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return rec.Record(context.Background(), tx, actor(), "onboarding", "subscription", "sub-1",
			nil, map[string]string{"status": "pending"})
	})
	require.NoError(t, err)

	var entry models.AuditEntry
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, "null", string(entry.Before))
}

func TestRecord_RollsBackWithCallerTransaction(t *testing.T) {
	rec, db := newTestRecorder(t)

	sentinel := errors.New("mutation failed")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := rec.Record(context.Background(), tx, actor(), "price_upsert", "price_record", "svc-team",
			nil, map[string]int{"value": 1}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, db.Model(&models.AuditEntry{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	rec, db := newTestRecorder(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return rec.Record(context.Background(), tx, actor(), "price_upsert", "price_record",
				fmt.Sprintf("item-%d", i), nil, map[string]int{"value": i})
		}))
	}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return rec.Record(context.Background(), tx, actor(), "sweep_past_due", "subscription", "sub-1",
			nil, map[string]string{"status": "past_due"})
	}))

	res, err := rec.List(context.Background(), &ListRequest{Action: "price_upsert"})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Total)

	res, err = rec.List(context.Background(), &ListRequest{TargetType: "subscription", TargetID: "sub-1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Total)
	require.Equal(t, "sweep_past_due", res.Items[0].Action)

	res, err = rec.List(context.Background(), &ListRequest{Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 4, res.Total)
	require.Len(t, res.Items, 2)

	future := time.Now().Add(time.Hour)
	res, err = rec.List(context.Background(), &ListRequest{From: &future})
	require.NoError(t, err)
	require.EqualValues(t, 0, res.Total)
}
