package types

// ServiceCategory buckets catalog entries for statement reporting.
type ServiceCategory string

const (
	ServiceCategoryTeam     ServiceCategory = "team"
	ServiceCategoryOneToOne ServiceCategory = "one_to_one"
	ServiceCategoryHybrid   ServiceCategory = "hybrid"
	ServiceCategoryOnline   ServiceCategory = "online"
	ServiceCategoryAddon    ServiceCategory = "addon"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case ServiceCategoryTeam, ServiceCategoryOneToOne, ServiceCategoryHybrid, ServiceCategoryOnline, ServiceCategoryAddon:
		return true
	}
	return false
}

// RuleKind selects how a payout (or platform fee) is derived from gross price.
type RuleKind string

const (
	RuleKindPercent RuleKind = "percent"
	RuleKindFixed   RuleKind = "fixed"
)

func (k RuleKind) Valid() bool {
	return k == RuleKindPercent || k == RuleKindFixed
}

// PayoutRecipient decides who is credited for an add-on purchase: the
// buyer's primary coach or the specialist attached to the purchase.
type PayoutRecipient string

const (
	PayoutRecipientPrimaryCoach PayoutRecipient = "primary_coach"
	PayoutRecipientAddonStaff   PayoutRecipient = "addon_staff"
)

func (r PayoutRecipient) Valid() bool {
	return r == PayoutRecipientPrimaryCoach || r == PayoutRecipientAddonStaff
}
