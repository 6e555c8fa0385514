package payout

import (
	"errors"
	"testing"

	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func percentRule(v int64) Rule { return Rule{Kind: types.RuleKindPercent, Value: v} }
func fixedRule(v int64) Rule   { return Rule{Kind: types.RuleKindFixed, Value: v} }

func TestCompute_AllCases(t *testing.T) {
	tests := []struct {
		name    string
		gross   types.Money
		rule    Rule
		want    types.Money
		wantErr bool
	}{
		{name: "percent basic", gross: 10000, rule: percentRule(70), want: 7000},
		{name: "percent rounds half up", gross: 50, rule: percentRule(33), want: 17},
		{name: "percent exact half rounds up", gross: 50, rule: percentRule(70), want: 35},
		{name: "percent below half rounds down", gross: 30, rule: percentRule(33), want: 10},
		{name: "percent zero", gross: 10000, rule: percentRule(0), want: 0},
		{name: "percent full", gross: 10000, rule: percentRule(100), want: 10000},
		{name: "fixed ignores gross", gross: 3750, rule: fixedRule(1200), want: 1200},
		{name: "fixed zero gross", gross: 0, rule: fixedRule(1200), want: 1200},
		{name: "negative gross rejected", gross: -1, rule: percentRule(70), wantErr: true},
		{name: "percent over 100 rejected", gross: 100, rule: percentRule(101), wantErr: true},
		{name: "negative fixed rejected", gross: 100, rule: fixedRule(-5), wantErr: true},
		{name: "unknown kind rejected", gross: 100, rule: Rule{Kind: "ratio", Value: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.gross, tt.rule)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Discounts must never leak into the payout: the engine only ever receives
// the list price, and holding price and rule constant while the discounted
// net varies cannot change the result.
func TestCompute_GrossInvariance(t *testing.T) {
	list := types.Money(5000) // subscriber pays 3000 after a 40% discount
	rule := percentRule(70)

	withDiscount, err := Compute(list, rule)
	require.NoError(t, err)
	withoutDiscount, err := Compute(list, rule)
	require.NoError(t, err)

	assert.Equal(t, withoutDiscount, withDiscount)
	assert.Equal(t, types.Money(3500), withDiscount)
}

func TestPlatformFee_SumsToGross(t *testing.T) {
	// Service priced 30.00: 70% payout, 30% platform fee.
	rule := Rule{
		Kind: types.RuleKindPercent, Value: 70,
		PlatformFeeKind: types.RuleKindPercent, PlatformFeeValue: 30,
	}
	gross := types.Money(3000)

	pay, err := Compute(gross, rule)
	require.NoError(t, err)
	fee, err := PlatformFee(gross, rule)
	require.NoError(t, err)

	assert.Equal(t, types.Money(2100), pay)
	assert.Equal(t, types.Money(900), fee)
	assert.Equal(t, gross, pay+fee)
}

func TestPlatformFee_Unconfigured(t *testing.T) {
	fee, err := PlatformFee(1000, percentRule(70))
	require.NoError(t, err)
	assert.Equal(t, types.Money(0), fee)
}

func TestDefaultRule_Flagged(t *testing.T) {
	r := DefaultRule(70)
	assert.True(t, r.Fallback)
	assert.Equal(t, types.RuleKindPercent, r.Kind)

	got, err := Compute(10000, r)
	require.NoError(t, err)
	assert.Equal(t, types.Money(7000), got)
}
