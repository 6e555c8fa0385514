package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"

	"gorm.io/datatypes"
)

// AuditEntry pairs every mutation of pricing, payout rules or lifecycle
// state with a before/after snapshot. Append-only; written in the same
// transaction as the mutation so neither can exist without the other.
type AuditEntry struct {
	ID         string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ActorID    string          `gorm:"column:actor_id;type:varchar(64);not null" json:"actor_id"`
	ActorType  types.ActorType `gorm:"column:actor_type;type:varchar(16);not null" json:"actor_type"`
	Action     string          `gorm:"column:action;type:varchar(64);not null" json:"action"`
	TargetType string          `gorm:"column:target_type;type:varchar(64);not null;index:idx_target,priority:1" json:"target_type"`
	TargetID   string          `gorm:"column:target_id;type:varchar(64);not null;index:idx_target,priority:2" json:"target_id"`
	// Before is null for creations, After for nothing — entries are never
	// written for reads or deletes (nothing in the core hard-deletes).
	Before    datatypes.JSON `gorm:"column:before;type:jsonb;default:'null'" json:"before"`
	After     datatypes.JSON `gorm:"column:after;type:jsonb;default:'null'" json:"after"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entry"
}
