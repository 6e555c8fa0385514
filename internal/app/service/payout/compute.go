// Package payout is the pure calculation engine: gross list price in, amount
// owed to staff out. It never sees discounts or promotional amounts —
// discounts are a customer-acquisition cost borne by the platform, so staff
// compensation is always derived from the undiscounted list price.
package payout

import (
	"fmt"

	"github.com/fitdesk/coachpay/pkg/types"
)

// ErrInvalidInput signals a value rejected at the calculation boundary. The
// wrapped message names the failing field.
var ErrInvalidInput = fmt.Errorf("invalid input")

// Compute returns the payout owed for one unit of service at the given
// gross list price under the given rule. Percent rules round half-up to the
// minor currency unit; fixed rules ignore the gross price entirely.
func Compute(gross types.Money, rule Rule) (types.Money, error) {
	if gross < 0 {
		return 0, fmt.Errorf("%w: gross_price must be non-negative, got %d", ErrInvalidInput, gross)
	}
	switch rule.Kind {
	case types.RuleKindPercent:
		return applyPercent(gross, rule.Value)
	case types.RuleKindFixed:
		if rule.Value < 0 {
			return 0, fmt.Errorf("%w: rule value must be non-negative, got %d", ErrInvalidInput, rule.Value)
		}
		return types.Money(rule.Value), nil
	default:
		return 0, fmt.Errorf("%w: rule kind %q", ErrInvalidInput, rule.Kind)
	}
}

// PlatformFee returns the platform's cut for the same unit. A rule without
// a fee kind configured yields zero.
func PlatformFee(gross types.Money, rule Rule) (types.Money, error) {
	if gross < 0 {
		return 0, fmt.Errorf("%w: gross_price must be non-negative, got %d", ErrInvalidInput, gross)
	}
	switch rule.PlatformFeeKind {
	case "":
		return 0, nil
	case types.RuleKindPercent:
		return applyPercent(gross, rule.PlatformFeeValue)
	case types.RuleKindFixed:
		if rule.PlatformFeeValue < 0 {
			return 0, fmt.Errorf("%w: platform fee value must be non-negative, got %d", ErrInvalidInput, rule.PlatformFeeValue)
		}
		return types.Money(rule.PlatformFeeValue), nil
	default:
		return 0, fmt.Errorf("%w: platform fee kind %q", ErrInvalidInput, rule.PlatformFeeKind)
	}
}

// applyPercent rounds half-up in integer arithmetic: gross and value are
// both non-negative so truncating division after adding 50 lands .5 cases up.
func applyPercent(gross types.Money, value int64) (types.Money, error) {
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("%w: percent value must be within [0,100], got %d", ErrInvalidInput, value)
	}
	return types.Money((int64(gross)*value + 50) / 100), nil
}
