package statement

import (
	"fmt"
	"time"

	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	"github.com/fitdesk/coachpay/internal/app/service/payout"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/types"
)

// staffTotals is the per-staff accumulator for one run. Accumulators live
// only inside runInputs.aggregate — there is no shared mutable aggregation
// state between runs or between callers.
type staffTotals struct {
	ClientCounts     map[types.ServiceCategory]int
	GrossRevenue     types.Money
	DiscountsApplied types.Money
	NetCollected     types.Money
	BasePayout       types.Money
	AddonPayout      types.Money
	UsedFallbackRule bool
}

// EntityError reports one record the run could not process; the rest of the
// run proceeds, so an operator gets partial success plus a fix list.
type EntityError struct {
	StaffID        string `json:"staff_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	PurchaseID     string `json:"purchase_id,omitempty"`
	ItemID         string `json:"item_id,omitempty"`
	Reason         string `json:"reason"`
}

// runInputs is everything one aggregation run reads, bulk-fetched up front.
type runInputs struct {
	now          time.Time
	subs         []*models.Subscription
	purchases    []*models.AddonPurchase
	snapshot     *catalog.Snapshot
	exempt       map[string]bool
	creditExempt bool
}

// aggregate folds subscriptions and add-on purchases into per-staff totals.
// Pure with respect to storage: everything it needs is in the receiver.
func (in *runInputs) aggregate() (map[string]*staffTotals, []EntityError) {
	totals := make(map[string]*staffTotals)
	var errs []EntityError

	get := func(staffID string) *staffTotals {
		t, ok := totals[staffID]
		if !ok {
			t = &staffTotals{ClientCounts: make(map[types.ServiceCategory]int)}
			totals[staffID] = t
		}
		return t
	}

	// Maps buyers to their assigned coach for primary_coach add-on rules.
	coachOf := make(map[string]string)

	for _, sub := range in.subs {
		if !sub.Billable(in.now) {
			continue
		}
		if sub.StaffID == nil || *sub.StaffID == "" {
			continue
		}
		staffID := *sub.StaffID
		coachOf[sub.SubscriberID] = staffID

		entry, ok := in.snapshot.Entry(sub.ServiceID)
		if !ok {
			errs = append(errs, EntityError{
				StaffID: staffID, SubscriptionID: sub.ID, ItemID: sub.ServiceID,
				Reason: "service has no active catalog entry",
			})
			continue
		}

		t := get(staffID)
		// Exempt relationships still occupy coach capacity.
		t.ClientCounts[entry.Category]++

		price, ok := in.snapshot.ActivePrice(sub.ServiceID)
		if !ok {
			errs = append(errs, EntityError{
				StaffID: staffID, SubscriptionID: sub.ID, ItemID: sub.ServiceID,
				Reason: "service has no active price",
			})
			continue
		}

		rule := in.snapshot.ResolveRule(sub.ServiceID)
		pay, err := payout.Compute(price, rule)
		if err != nil {
			errs = append(errs, EntityError{
				StaffID: staffID, SubscriptionID: sub.ID, ItemID: sub.ServiceID,
				Reason: fmt.Sprintf("payout computation failed: %v", err),
			})
			continue
		}
		if rule.Fallback {
			t.UsedFallbackRule = true
		}

		if in.exempt[sub.SubscriberID] {
			// No revenue from exempt subscribers; payout credit only when
			// configured.
			if in.creditExempt {
				t.BasePayout += pay
			}
			continue
		}

		billed := price
		if sub.BillingAmountOverride != nil && *sub.BillingAmountOverride < price {
			billed = *sub.BillingAmountOverride
		}
		t.GrossRevenue += price
		t.DiscountsApplied += price - billed
		t.NetCollected += billed
		// Payout comes off the undiscounted list price, always.
		t.BasePayout += pay
	}

	for _, p := range in.purchases {
		rule := in.snapshot.ResolveRule(p.AddonID)

		staffID := p.StaffID
		if rule.Recipient == types.PayoutRecipientPrimaryCoach {
			if coach, ok := coachOf[p.BuyerID]; ok {
				staffID = coach
			}
		}
		if staffID == "" {
			errs = append(errs, EntityError{
				PurchaseID: p.ID, ItemID: p.AddonID,
				Reason: "add-on purchase has no payout recipient",
			})
			continue
		}

		listPrice, ok := in.snapshot.ActivePrice(p.AddonID)
		if !ok {
			errs = append(errs, EntityError{
				StaffID: staffID, PurchaseID: p.ID, ItemID: p.AddonID,
				Reason: "add-on has no active price",
			})
			continue
		}
		gross := listPrice * types.Money(p.Quantity)

		pay, err := payout.Compute(gross, rule)
		if err != nil {
			errs = append(errs, EntityError{
				StaffID: staffID, PurchaseID: p.ID, ItemID: p.AddonID,
				Reason: fmt.Sprintf("payout computation failed: %v", err),
			})
			continue
		}

		t := get(staffID)
		if rule.Fallback {
			t.UsedFallbackRule = true
		}
		t.GrossRevenue += gross
		t.NetCollected += p.TotalPaid
		if gross > p.TotalPaid {
			t.DiscountsApplied += gross - p.TotalPaid
		}
		t.AddonPayout += pay
	}

	return totals, errs
}
