package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"
)

// CatalogEntry is a sellable service or add-on. Identity is immutable;
// the current price lives in PriceRecord so that edits stay versioned.
type CatalogEntry struct {
	ID          string                `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	DisplayName string                `gorm:"column:display_name;type:varchar(255);not null" json:"display_name"`
	Category    types.ServiceCategory `gorm:"column:category;type:varchar(32);not null" json:"category"`
	Active      bool                  `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (CatalogEntry) TableName() string {
	return "catalog_entry"
}

func (e *CatalogEntry) IsAddon() bool {
	return e != nil && e.Category == types.ServiceCategoryAddon
}
