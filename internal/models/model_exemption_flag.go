package models

import "time"

// ExemptionFlag marks a subscriber as payment-exempt (contractual free
// access). Exempt subscribers generate no revenue and their lifecycle decay
// is suspended, but they still occupy staff capacity.
type ExemptionFlag struct {
	SubscriberID string    `gorm:"column:subscriber_id;type:varchar(64);primary_key" json:"subscriber_id"`
	Exempt       bool      `gorm:"column:exempt;not null;default:false" json:"exempt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ExemptionFlag) TableName() string {
	return "exemption_flag"
}
