package types

type SubscriptionStatus string

const (
	// SubscriptionStatusPending is the initial state before the first payment.
	SubscriptionStatusPending SubscriptionStatus = "pending"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	// SubscriptionStatusPastDue covers the grace window too; grace is a
	// computed sub-phase of past_due, not a persisted state.
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// LifecycleAction is the trigger recorded with every subscription transition.
type LifecycleAction string

const (
	LifecycleActionFirstPayment    LifecycleAction = "first_payment"
	LifecycleActionPayment         LifecycleAction = "payment"
	LifecycleActionManualPayment   LifecycleAction = "manual_payment"
	LifecycleActionSweepPastDue    LifecycleAction = "sweep_past_due"
	LifecycleActionSweepDeactivate LifecycleAction = "sweep_deactivate"
	LifecycleActionGraceExtension  LifecycleAction = "grace_extension"
	LifecycleActionExemptionOn     LifecycleAction = "exemption_on"
	LifecycleActionExemptionOff    LifecycleAction = "exemption_off"
	LifecycleActionOnboarding      LifecycleAction = "onboarding"
)
