package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"

	"gorm.io/datatypes"
)

// PayoutStatement is the immutable monthly record of computed payout for one
// staff member. Exactly one row per (staff_id, period); an unpaid row is
// overwritten by a recompute, a paid row never is.
type PayoutStatement struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	StaffID string `gorm:"column:staff_id;type:varchar(64);not null;uniqueIndex:idx_staff_period,priority:1" json:"staff_id"`
	// Period is the statement month in YYYY-MM form.
	Period string `gorm:"column:period;type:varchar(7);not null;uniqueIndex:idx_staff_period,priority:2" json:"period"`
	// ClientCounts holds the per-category client roster, exempt
	// relationships included (they consume capacity even at zero revenue).
	ClientCounts     datatypes.JSONType[map[types.ServiceCategory]int] `gorm:"column:client_counts;type:jsonb;default:'{}'" json:"client_counts"`
	GrossRevenue     types.Money                                       `gorm:"column:gross_revenue;type:bigint;not null" json:"gross_revenue"`
	DiscountsApplied types.Money                                       `gorm:"column:discounts_applied;type:bigint;not null" json:"discounts_applied"`
	NetCollected     types.Money                                       `gorm:"column:net_collected;type:bigint;not null" json:"net_collected"`
	BasePayout       types.Money                                       `gorm:"column:base_payout;type:bigint;not null" json:"base_payout"`
	AddonPayout      types.Money                                       `gorm:"column:addon_payout;type:bigint;not null" json:"addon_payout"`
	TotalPayout      types.Money                                       `gorm:"column:total_payout;type:bigint;not null" json:"total_payout"`
	// UsedFallbackRule flags statements that priced at least one item with
	// the default rule because no rule was configured.
	UsedFallbackRule bool       `gorm:"column:used_fallback_rule;not null;default:false" json:"used_fallback_rule"`
	IsPaid           bool       `gorm:"column:is_paid;not null;default:false" json:"is_paid"`
	PaidAt           *time.Time `gorm:"column:paid_at;default:null" json:"paid_at"`
	ComputedAt       time.Time  `gorm:"column:computed_at;not null" json:"computed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (PayoutStatement) TableName() string {
	return "payout_statement"
}
