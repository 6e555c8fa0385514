package models

import "time"

// ReminderLog records that a payment reminder was requested for a
// subscription. Delivery itself happens outside the core; this row is the
// core's side of the handoff.
type ReminderLog struct {
	ID             string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string    `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	SubscriberID   string    `gorm:"column:subscriber_id;type:varchar(64);not null" json:"subscriber_id"`
	RequestedBy    string    `gorm:"column:requested_by;type:varchar(64);not null" json:"requested_by"`
	Note           string    `gorm:"column:note;type:varchar(512)" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ReminderLog) TableName() string {
	return "reminder_log"
}
