package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/payout"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/logctx"
	"github.com/fitdesk/coachpay/pkg/tool"
	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidInput names a field that failed shape validation at the
	// configuration boundary.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownItem is returned when a price or rule references an item id
	// that has no catalog entry.
	ErrUnknownItem = errors.New("unknown catalog item")
)

type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
	rec *audit.Recorder
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, rec *audit.Recorder) *Service {
	return &Service{cfg: cfg, db: db, log: log, rec: rec}
}

// ActivePrice looks up the single active price for an item.
func (s *Service) ActivePrice(ctx context.Context, itemID string) (types.Money, error) {
	var rec models.PriceRecord
	err := s.db.WithContext(ctx).
		Where("item_id = ? AND active = ?", itemID, true).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: no active price for %s", ErrUnknownItem, itemID)
		}
		return 0, fmt.Errorf("failed to load price for %s: %w", itemID, err)
	}
	return rec.Amount, nil
}

// Snapshot bulk-loads active catalog entries, prices and rules for one run.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var entries []*models.CatalogEntry
	if err := s.db.WithContext(ctx).Where("active = ?", true).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog entries: %w", err)
	}

	var prices []*models.PriceRecord
	if err := s.db.WithContext(ctx).Where("active = ?", true).Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to load active prices: %w", err)
	}

	var rules []*models.PayoutRule
	if err := s.db.WithContext(ctx).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load payout rules: %w", err)
	}

	return &Snapshot{
		entries: lo.KeyBy(entries, func(e *models.CatalogEntry) string { return e.ID }),
		prices: lo.SliceToMap(prices, func(p *models.PriceRecord) (string, types.Money) {
			return p.ItemID, p.Amount
		}),
		rules: lo.SliceToMap(rules, func(r *models.PayoutRule) (string, payout.Rule) {
			return r.ItemID, payout.FromModel(r)
		}),
		defaultRule: payout.DefaultRule(s.cfg.Payout.DefaultPercent),
	}, nil
}

// ResolveRule returns the configured rule for one item, or the flagged
// default. Single-item variant of Snapshot().ResolveRule for admin surfaces.
func (s *Service) ResolveRule(ctx context.Context, itemID string) (payout.Rule, error) {
	var rule models.PayoutRule
	err := s.db.WithContext(ctx).Where("item_id = ?", itemID).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logctx.FromCtx(ctx, s.log).Infow("payout rule fallback used", "item_id", itemID, "default_percent", s.cfg.Payout.DefaultPercent)
			return payout.DefaultRule(s.cfg.Payout.DefaultPercent), nil
		}
		return payout.Rule{}, fmt.Errorf("failed to load payout rule for %s: %w", itemID, err)
	}
	return payout.FromModel(&rule), nil
}

// UpsertPrice replaces the active price for an item. The old record is
// superseded (deactivated), not overwritten, and the change is audited in
// the same transaction.
func (s *Service) UpsertPrice(ctx context.Context, actor types.Actor, itemID string, amount types.Money) error {
	if itemID == "" {
		return fmt.Errorf("%w: item_id is required", ErrInvalidInput)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative, got %d", ErrInvalidInput, amount)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.CatalogEntry
		if err := tx.Where("id = ?", itemID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
			}
			return fmt.Errorf("failed to load catalog entry: %w", err)
		}

		var before *models.PriceRecord
		var current models.PriceRecord
		err := tx.Where("item_id = ? AND active = ?", itemID, true).First(&current).Error
		switch {
		case err == nil:
			cp := current
			before = &cp
			current.Active = false
			if err := tx.Save(&current).Error; err != nil {
				return fmt.Errorf("failed to supersede price record: %w", err)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to load current price: %w", err)
		}

		next := &models.PriceRecord{
			ID:          tool.GenerateUUIDV7(),
			ItemID:      itemID,
			Amount:      amount,
			Active:      true,
			EffectiveAt: time.Now(),
			EditorID:    actor.ID,
		}
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("failed to create price record: %w", err)
		}

		return s.rec.Record(ctx, tx, actor, "price_upsert", "price_record", itemID, before, next)
	})
}

// UpsertRule creates or replaces the payout rule for an item after shape
// validation, audited in the same transaction.
func (s *Service) UpsertRule(ctx context.Context, actor types.Actor, rule *models.PayoutRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.CatalogEntry
		if err := tx.Where("id = ?", rule.ItemID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownItem, rule.ItemID)
			}
			return fmt.Errorf("failed to load catalog entry: %w", err)
		}

		var before *models.PayoutRule
		var current models.PayoutRule
		err := tx.Where("item_id = ?", rule.ItemID).First(&current).Error
		switch {
		case err == nil:
			cp := current
			before = &cp
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to load current rule: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			UpdateAll: true,
		}).Create(rule).Error; err != nil {
			return fmt.Errorf("failed to upsert payout rule: %w", err)
		}

		return s.rec.Record(ctx, tx, actor, "payout_rule_upsert", "payout_rule", rule.ItemID, before, rule)
	})
}

// UpsertEntry creates or updates a catalog entry (display name, category,
// active flag). Identity is immutable; the id is the conflict key.
func (s *Service) UpsertEntry(ctx context.Context, actor types.Actor, entry *models.CatalogEntry) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if !entry.Category.Valid() {
		return fmt.Errorf("%w: category %q", ErrInvalidInput, entry.Category)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before *models.CatalogEntry
		var current models.CatalogEntry
		err := tx.Where("id = ?", entry.ID).First(&current).Error
		switch {
		case err == nil:
			cp := current
			before = &cp
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to load catalog entry: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(entry).Error; err != nil {
			return fmt.Errorf("failed to upsert catalog entry: %w", err)
		}

		return s.rec.Record(ctx, tx, actor, "catalog_entry_upsert", "catalog_entry", entry.ID, before, entry)
	})
}

// ListPrices returns all active prices joined with their catalog entries.
func (s *Service) ListPrices(ctx context.Context) ([]*models.PriceRecord, error) {
	var prices []*models.PriceRecord
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("item_id").Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return prices, nil
}

// ListRules returns all configured payout rules.
func (s *Service) ListRules(ctx context.Context) ([]*models.PayoutRule, error) {
	var rules []*models.PayoutRule
	if err := s.db.WithContext(ctx).Order("item_id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list payout rules: %w", err)
	}
	return rules, nil
}

func validateRule(rule *models.PayoutRule) error {
	if rule == nil || rule.ItemID == "" {
		return fmt.Errorf("%w: item_id is required", ErrInvalidInput)
	}
	if !rule.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidInput, rule.Kind)
	}
	if rule.Value < 0 {
		return fmt.Errorf("%w: value must be non-negative, got %d", ErrInvalidInput, rule.Value)
	}
	if rule.Kind == types.RuleKindPercent && rule.Value > 100 {
		return fmt.Errorf("%w: percent value must be within [0,100], got %d", ErrInvalidInput, rule.Value)
	}
	if rule.PlatformFeeKind != "" {
		if !rule.PlatformFeeKind.Valid() {
			return fmt.Errorf("%w: platform_fee_kind %q", ErrInvalidInput, rule.PlatformFeeKind)
		}
		if rule.PlatformFeeValue < 0 {
			return fmt.Errorf("%w: platform_fee_value must be non-negative, got %d", ErrInvalidInput, rule.PlatformFeeValue)
		}
		if rule.PlatformFeeKind == types.RuleKindPercent && rule.PlatformFeeValue > 100 {
			return fmt.Errorf("%w: platform_fee_value must be within [0,100], got %d", ErrInvalidInput, rule.PlatformFeeValue)
		}
	}
	if rule.Recipient == "" {
		rule.Recipient = types.PayoutRecipientPrimaryCoach
	}
	if !rule.Recipient.Valid() {
		return fmt.Errorf("%w: recipient %q", ErrInvalidInput, rule.Recipient)
	}
	return nil
}
