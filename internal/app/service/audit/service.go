package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/tool"
	"github.com/fitdesk/coachpay/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recorder persists before/after records for every configuration and
// lifecycle mutation. Entries are written inside the caller's transaction:
// if the audit insert fails the mutation rolls back with it, so no change
// can land without its trail.
type Recorder struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewRecorder(db *gorm.DB, log *zap.SugaredLogger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Record appends one entry using tx. Pass nil before for creations.
// before/after are snapshotted as JSON; they must marshal cleanly.
func (r *Recorder) Record(ctx context.Context, tx *gorm.DB, actor types.Actor, action, targetType, targetID string, before, after any) error {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return fmt.Errorf("failed to marshal audit before-state: %w", err)
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return fmt.Errorf("failed to marshal audit after-state: %w", err)
	}

	entry := &models.AuditEntry{
		ID:         tool.GenerateUUIDV7(),
		ActorID:    actor.ID,
		ActorType:  actor.Type,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Before:     datatypes.JSON(beforeJSON),
		After:      datatypes.JSON(afterJSON),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

type ListRequest struct {
	TargetType string     `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Action     string     `json:"action"`
	From       *time.Time `json:"from"`
	To         *time.Time `json:"to"`
	Offset     int        `json:"offset"`
	Limit      int        `json:"limit"`
}

type ListResponse struct {
	Items []*models.AuditEntry `json:"items"`
	Total int64                `json:"total"`
}

// List returns entries filtered by target and time range, newest first.
func (r *Recorder) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&models.AuditEntry{})
	if req.TargetType != "" {
		q = q.Where("target_type = ?", req.TargetType)
	}
	if req.TargetID != "" {
		q = q.Where("target_id = ?", req.TargetID)
	}
	if req.Action != "" {
		q = q.Where("action = ?", req.Action)
	}
	if req.From != nil {
		q = q.Where("created_at >= ?", *req.From)
	}
	if req.To != nil {
		q = q.Where("created_at < ?", *req.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	var items []*models.AuditEntry
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Offset(req.Offset).Limit(req.Limit).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return &ListResponse{Items: items, Total: total}, nil
}
