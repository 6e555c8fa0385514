package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"
)

// PriceRecord is one version of a service/add-on price. Edits supersede the
// previous active row instead of overwriting it, so the audit trail can show
// which price was in effect at any time. One active row per item id.
type PriceRecord struct {
	ID          string      `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ItemID      string      `gorm:"column:item_id;type:varchar(64);not null;index:idx_item_active,priority:1" json:"item_id"`
	Amount      types.Money `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Active      bool        `gorm:"column:active;not null;default:true;index:idx_item_active,priority:2" json:"active"`
	EffectiveAt time.Time   `gorm:"column:effective_at;not null" json:"effective_at"`
	EditorID    string      `gorm:"column:editor_id;type:varchar(64);not null" json:"editor_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (PriceRecord) TableName() string {
	return "price_record"
}
