package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"
)

// PayoutRule configures how staff compensation is derived from the gross
// list price of one service or add-on. One rule per item id.
type PayoutRule struct {
	ItemID string         `gorm:"column:item_id;type:varchar(64);primary_key" json:"item_id"`
	Kind   types.RuleKind `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	// Value is a whole percentage when Kind is percent, minor currency
	// units when Kind is fixed.
	Value            int64           `gorm:"column:value;type:bigint;not null" json:"value"`
	PlatformFeeKind  types.RuleKind  `gorm:"column:platform_fee_kind;type:varchar(16)" json:"platform_fee_kind"`
	PlatformFeeValue int64           `gorm:"column:platform_fee_value;type:bigint;not null;default:0" json:"platform_fee_value"`
	// Recipient only matters for add-on rules.
	Recipient types.PayoutRecipient `gorm:"column:recipient;type:varchar(32);not null;default:'primary_coach'" json:"recipient"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (PayoutRule) TableName() string {
	return "payout_rule"
}
