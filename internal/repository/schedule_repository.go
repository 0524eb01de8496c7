package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agenda-bjj/internal/model"
	"agenda-bjj/internal/timeutil"
)

// ScheduleRepository handles persistence of schedule items.
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create stores a new schedule item, assigning an internal id and a unique
// 4-hex code when they are missing. An active item whose window overlaps
// another active item on the same date is rejected with a ConflictError, so
// a successful insert keeps the agenda overlap-free. Completed items are
// historical records and are exempt.
func (r *ScheduleRepository) Create(ctx context.Context, item *model.ScheduleItem) error {
	if !item.IsCompleted {
		if err := r.checkWindowFree(ctx, item); err != nil {
			return err
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Code == "" {
		code, err := r.generateUniqueCode(ctx)
		if err != nil {
			return err
		}
		item.Code = code
	} else {
		item.Code = strings.ToUpper(item.Code)
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create schedule item: %w", err)
	}
	return nil
}

// checkWindowFree verifies that item's half-open window does not overlap any
// other active item on the same date. Touching endpoints do not conflict.
func (r *ScheduleRepository) checkWindowFree(ctx context.Context, item *model.ScheduleItem) error {
	start, err := timeutil.ToMinutes(item.Start)
	if err != nil {
		return fmt.Errorf("item start: %w", err)
	}
	end, err := timeutil.ToMinutes(item.End)
	if err != nil {
		return fmt.Errorf("item end: %w", err)
	}

	others, err := r.ListActiveByDate(ctx, item.Date)
	if err != nil {
		return err
	}
	for i := range others {
		other := others[i]
		if other.ID == item.ID {
			continue
		}
		otherStart, err := timeutil.ToMinutes(other.Start)
		if err != nil {
			continue
		}
		otherEnd, err := timeutil.ToMinutes(other.End)
		if err != nil {
			continue
		}
		if timeutil.Overlaps(start, end, otherStart, otherEnd) {
			return &ConflictError{With: other}
		}
	}
	return nil
}

// ListByDate returns every item on the given date ordered by start time.
func (r *ScheduleRepository) ListByDate(ctx context.Context, date string) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := r.db.WithContext(ctx).Where("date = ?", date).
		Order("start ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items for %s: %w", date, err)
	}
	return items, nil
}

// ListActiveByDate returns the non-completed items on the given date.
func (r *ScheduleRepository) ListActiveByDate(ctx context.Context, date string) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := r.db.WithContext(ctx).Where("date = ? AND is_completed = ?", date, false).
		Order("start ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list active items for %s: %w", date, err)
	}
	return items, nil
}

// FindByCode looks up an item by its 4-hex code regardless of completion state.
func (r *ScheduleRepository) FindByCode(ctx context.Context, code string) (*model.ScheduleItem, error) {
	var item model.ScheduleItem
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindActiveByCode looks up a non-completed item by its 4-hex code.
func (r *ScheduleRepository) FindActiveByCode(ctx context.Context, code string) (*model.ScheduleItem, error) {
	var item model.ScheduleItem
	if err := r.db.WithContext(ctx).Where("code = ? AND is_completed = ?", strings.ToUpper(code), false).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateWindow rewrites the time window and reschedule reason of one item.
func (r *ScheduleRepository) UpdateWindow(ctx context.Context, code, start, end, reason string) error {
	err := r.db.WithContext(ctx).Model(&model.ScheduleItem{}).
		Where("code = ?", strings.ToUpper(code)).
		Updates(map[string]interface{}{
			"start":              start,
			"end":                end,
			"rescheduled_reason": reason,
		}).Error
	if err != nil {
		return fmt.Errorf("update window of %s: %w", code, err)
	}
	return nil
}

// MarkCompleted sets the completion flag of one item.
func (r *ScheduleRepository) MarkCompleted(ctx context.Context, code string) error {
	err := r.db.WithContext(ctx).Model(&model.ScheduleItem{}).
		Where("code = ?", strings.ToUpper(code)).
		Update("is_completed", true).Error
	if err != nil {
		return fmt.Errorf("complete %s: %w", code, err)
	}
	return nil
}

// ListBetween returns all items with from <= date <= to ordered by date and start.
func (r *ScheduleRepository) ListBetween(ctx context.Context, from, to string) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := r.db.WithContext(ctx).Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, start ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items %s..%s: %w", from, to, err)
	}
	return items, nil
}

// ListPendingFrom returns non-completed items dated from the given day onward.
func (r *ScheduleRepository) ListPendingFrom(ctx context.Context, date string) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := r.db.WithContext(ctx).Where("date >= ? AND is_completed = ?", date, false).
		Order("date ASC, start ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list pending from %s: %w", date, err)
	}
	return items, nil
}

// Counts returns total, completed and pending item counts over the whole store.
func (r *ScheduleRepository) Counts(ctx context.Context) (total, completed, pending int64, err error) {
	db := r.db.WithContext(ctx).Model(&model.ScheduleItem{})
	if err = db.Count(&total).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count items: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&model.ScheduleItem{}).
		Where("is_completed = ?", true).Count(&completed).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count completed items: %w", err)
	}
	return total, completed, total - completed, nil
}

// generateUniqueCode draws random 4-hex codes until one is free.
func (r *ScheduleRepository) generateUniqueCode(ctx context.Context) (string, error) {
	const hexDigits = "0123456789ABCDEF"
	for attempt := 0; attempt < 64; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		code := make([]byte, 4)
		for i, b := range buf {
			code[i] = hexDigits[int(b)%16]
		}
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.ScheduleItem{}).
			Where("code = ?", string(code)).Count(&count).Error; err != nil {
			return "", fmt.Errorf("check code %s: %w", code, err)
		}
		if count == 0 {
			return string(code), nil
		}
	}
	return "", fmt.Errorf("generate code: namespace exhausted")
}
