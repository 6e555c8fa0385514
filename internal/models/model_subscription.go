package models

import (
	"github.com/fitdesk/coachpay/pkg/types"
	"time"
)

// Subscription is one paying relationship between a subscriber and a
// service, optionally assigned to a staff member. Never hard-deleted:
// inactive rows are kept for history.
type Subscription struct {
	ID           string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriberID string                   `gorm:"column:subscriber_id;type:varchar(64);not null;index" json:"subscriber_id"`
	ServiceID    string                   `gorm:"column:service_id;type:varchar(64);not null" json:"service_id"`
	StaffID      *string                  `gorm:"column:staff_id;type:varchar(64);index" json:"staff_id"`
	Status       types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	// NextBillingDate is nil only while pending; an active row without one
	// is a data-integrity fault the sweep reports rather than repairs.
	NextBillingDate *time.Time `gorm:"column:next_billing_date;default:null" json:"next_billing_date"`
	PastDueSince    *time.Time `gorm:"column:past_due_since;default:null" json:"past_due_since"`
	GracePeriodDays int        `gorm:"column:grace_period_days;not null;default:7" json:"grace_period_days"`
	// BillingAmountOverride, when set below list price, is a discount. It
	// changes what the subscriber pays, never what the coach is paid.
	BillingAmountOverride *types.Money `gorm:"column:billing_amount_override;type:bigint" json:"billing_amount_override"`
	// Version guards concurrent lifecycle transitions; the later writer
	// loses and retries against the refreshed row.
	Version   int64     `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// InGrace reports whether the subscription sits in the grace sub-phase of
// past_due at the given instant.
func (s *Subscription) InGrace(now time.Time) bool {
	if s == nil || s.Status != types.SubscriptionStatusPastDue || s.PastDueSince == nil {
		return false
	}
	return !now.After(s.PastDueSince.Add(time.Duration(s.GracePeriodDays) * 24 * time.Hour))
}

// GraceExpired reports whether the grace window has elapsed without payment.
// Expiry is a strict exceedance: at exactly pastDueSince + gracePeriodDays
// the row is still in grace, and only the first instant past it expires.
// The actual deactivation is applied by the sweep, so a row can sit in this
// sub-state for a while.
func (s *Subscription) GraceExpired(now time.Time) bool {
	if s == nil || s.Status != types.SubscriptionStatusPastDue || s.PastDueSince == nil {
		return false
	}
	return now.After(s.PastDueSince.Add(time.Duration(s.GracePeriodDays) * 24 * time.Hour))
}

// Billable reports whether the subscription qualifies for revenue in a
// period: active, or past_due still inside grace.
func (s *Subscription) Billable(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.Status == types.SubscriptionStatusActive || s.InGrace(now)
}
