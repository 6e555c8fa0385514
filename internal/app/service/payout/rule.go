package payout

import (
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/types"
)

// Rule is the resolved, validated payout configuration for one item. It is
// a plain value so the engine stays free of storage concerns.
type Rule struct {
	Kind             types.RuleKind
	Value            int64
	PlatformFeeKind  types.RuleKind
	PlatformFeeValue int64
	Recipient        types.PayoutRecipient
	// Fallback marks rules that were not configured but defaulted; any
	// statement priced with one must be flagged for audit visibility.
	Fallback bool
}

// FromModel converts a stored rule row.
func FromModel(m *models.PayoutRule) Rule {
	return Rule{
		Kind:             m.Kind,
		Value:            m.Value,
		PlatformFeeKind:  m.PlatformFeeKind,
		PlatformFeeValue: m.PlatformFeeValue,
		Recipient:        m.Recipient,
	}
}

// DefaultRule is the documented fallback applied when an item has no
// configured rule. Keeping it a first-class value (rather than an inline
// literal) lets reports show which statements relied on it.
func DefaultRule(percent int64) Rule {
	return Rule{
		Kind:      types.RuleKindPercent,
		Value:     percent,
		Recipient: types.PayoutRecipientPrimaryCoach,
		Fallback:  true,
	}
}
