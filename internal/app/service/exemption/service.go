// Package exemption resolves payment-exempt subscribers. The flag is read
// here; toggling it is a billing admin action because it force-drives
// lifecycle state.
package exemption

import (
	"context"
	"errors"
	"fmt"

	models "github.com/fitdesk/coachpay/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// IsExempt reports whether the subscriber has contractual free access.
// Missing flag rows read as not exempt.
func (s *Service) IsExempt(ctx context.Context, subscriberID string) (bool, error) {
	var flag models.ExemptionFlag
	err := s.db.WithContext(ctx).Where("subscriber_id = ?", subscriberID).First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load exemption flag: %w", err)
	}
	return flag.Exempt, nil
}

// ExemptSet bulk-loads all exempt subscriber ids for one batch run.
func (s *Service) ExemptSet(ctx context.Context) (map[string]bool, error) {
	var flags []*models.ExemptionFlag
	if err := s.db.WithContext(ctx).Where("exempt = ?", true).Find(&flags).Error; err != nil {
		return nil, fmt.Errorf("failed to load exemption flags: %w", err)
	}
	set := make(map[string]bool, len(flags))
	for _, f := range flags {
		set[f.SubscriberID] = true
	}
	return set, nil
}
