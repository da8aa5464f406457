package record

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Loader assembles the sanitized payload for one (target, window) pair.
// A nil userID selects the global population.
type Loader struct {
	DB *gorm.DB
}

func (l *Loader) Window(ctx context.Context, userID *uint64, start, end time.Time) (SanitizedPayload, error) {
	var p SanitizedPayload

	q := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("created_at >= ? AND created_at < ?", start, end)
		if userID != nil {
			tx = tx.Where("user_id = ?", *userID)
		}
		return tx.Order("created_at asc")
	}

	if err := q(l.DB.WithContext(ctx).Model(&JournalRecord{})).Find(&p.Journals).Error; err != nil {
		return SanitizedPayload{}, err
	}
	if err := q(l.DB.WithContext(ctx).Model(&CheckinRecord{})).Find(&p.Checkins).Error; err != nil {
		return SanitizedPayload{}, err
	}
	if err := q(l.DB.WithContext(ctx).Model(&AlertRecord{})).Find(&p.Alerts).Error; err != nil {
		return SanitizedPayload{}, err
	}
	if err := q(l.DB.WithContext(ctx).Model(&ActivityRecord{})).Find(&p.Activities).Error; err != nil {
		return SanitizedPayload{}, err
	}
	if err := l.DB.WithContext(ctx).Model(&AppointmentRecord{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Scopes(func(tx *gorm.DB) *gorm.DB {
			if userID != nil {
				return tx.Where("user_id = ?", *userID)
			}
			return tx
		}).
		Order("scheduled_at asc").
		Find(&p.Appointments).Error; err != nil {
		return SanitizedPayload{}, err
	}

	p.Strip()
	return p, nil
}
