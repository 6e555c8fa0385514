package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"
)

// AddonPurchase is one purchase of a supplementary service (for example a
// specialist session pack) on top of a base subscription.
type AddonPurchase struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	BuyerID string `gorm:"column:buyer_id;type:varchar(64);not null;index" json:"buyer_id"`
	AddonID string `gorm:"column:addon_id;type:varchar(64);not null" json:"addon_id"`
	// StaffID is the specialist who services the pack; whether they or the
	// buyer's primary coach get the payout is decided by the add-on's rule.
	StaffID           string      `gorm:"column:staff_id;type:varchar(64);not null;index" json:"staff_id"`
	Quantity          int         `gorm:"column:quantity;not null;default:1" json:"quantity"`
	TotalPaid         types.Money `gorm:"column:total_paid;type:bigint;not null" json:"total_paid"`
	PayoutOwed        types.Money `gorm:"column:payout_owed;type:bigint;not null" json:"payout_owed"`
	RemainingSessions int         `gorm:"column:remaining_sessions;not null;default:0" json:"remaining_sessions"`
	ExpireAt          *time.Time  `gorm:"column:expire_at;default:null" json:"expire_at"`
	PurchaseAt        time.Time   `gorm:"column:purchase_at;not null;index" json:"purchase_at"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (AddonPurchase) TableName() string {
	return "addon_purchase"
}
