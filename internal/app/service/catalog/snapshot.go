package catalog

import (
	"github.com/fitdesk/coachpay/internal/app/service/payout"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/types"
)

// Snapshot is a per-run, read-only view of the catalog, active prices and
// payout rules, bulk-fetched once so an aggregation over thousands of
// subscriptions does not hit the tables per record. Snapshots are never
// cached across runs; rule edits between runs always take effect.
type Snapshot struct {
	entries     map[string]*models.CatalogEntry
	prices      map[string]types.Money
	rules       map[string]payout.Rule
	defaultRule payout.Rule
}

// Entry returns the catalog entry for an item id, active or not.
func (s *Snapshot) Entry(itemID string) (*models.CatalogEntry, bool) {
	e, ok := s.entries[itemID]
	return e, ok
}

// ActivePrice returns the current price for an active item.
func (s *Snapshot) ActivePrice(itemID string) (types.Money, bool) {
	p, ok := s.prices[itemID]
	return p, ok
}

// ResolveRule returns the configured payout rule for the item, or the
// documented default when none exists. The fallback is flagged on the rule
// so downstream statements can surface it.
func (s *Snapshot) ResolveRule(itemID string) payout.Rule {
	if r, ok := s.rules[itemID]; ok {
		return r
	}
	return s.defaultRule
}

// HasRule reports whether the item has an explicitly configured rule.
func (s *Snapshot) HasRule(itemID string) bool {
	_, ok := s.rules[itemID]
	return ok
}
