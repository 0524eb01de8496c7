package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"agenda-bjj/internal/model"
	"agenda-bjj/internal/repository"
	"agenda-bjj/internal/timeutil"
)

// TaskView is a schedule item enriched with the category and user names the
// message composer renders.
type TaskView struct {
	model.ScheduleItem
	CategoryName   string
	CategoryIcon   string
	AssignedToName string
	CreatedByName  string
}

// WeeklyStats aggregates the current week's items.
type WeeklyStats struct {
	From           string
	To             string
	Total          int
	Completed      int
	Pending        int
	CompletionRate int // percent, only meaningful when Total > 0
	ByCategory     []CategoryCount
}

// CategoryCount is one per-category tally in the weekly stats.
type CategoryCount struct {
	Name  string
	Icon  string
	Count int
}

// SystemStatus holds the counters the /status command reports.
type SystemStatus struct {
	Tasks            int64
	ActiveUsers      int64
	ActiveCategories int64
}

// ScheduleService wraps schedule mutations and queries. Mutations always
// re-fetch the item fresh before acting, so a stale chat command never
// overwrites newer dashboard edits. The conflict check and the following
// write are not one transaction: with a single administrative channel the
// check-then-act window is accepted.
type ScheduleService struct {
	items      *repository.ScheduleRepository
	categories *repository.CategoryRepository
	users      *repository.UserRepository
}

func NewScheduleService(items *repository.ScheduleRepository, categories *repository.CategoryRepository, users *repository.UserRepository) *ScheduleService {
	return &ScheduleService{items: items, categories: categories, users: users}
}

// Reschedule shifts an active task's window by the given whole hours.
func (s *ScheduleService) Reschedule(ctx context.Context, code string, hours int) (*TaskView, error) {
	if hours != 1 && hours != 2 {
		return nil, ErrBadShift
	}

	item, err := s.items.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", code, err)
	}

	startMin, err := timeutil.ToMinutes(item.Start)
	if err != nil {
		return nil, fmt.Errorf("task %s start: %w", code, err)
	}
	endMin, err := timeutil.ToMinutes(item.End)
	if err != nil {
		return nil, fmt.Errorf("task %s end: %w", code, err)
	}

	newStart := startMin + hours*60
	newEnd := endMin + hours*60
	if newStart >= 24*60 || newEnd >= 24*60 {
		return nil, ErrPastMidnight
	}

	conflict, err := s.CheckConflict(ctx, item.Date, timeutil.FromMinutes(newStart), timeutil.FromMinutes(newEnd), item.ID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &ConflictError{With: *conflict}
	}

	reason := fmt.Sprintf("Reagendado via Telegram: +%dh", hours)
	if err := s.items.UpdateWindow(ctx, item.Code, timeutil.FromMinutes(newStart), timeutil.FromMinutes(newEnd), reason); err != nil {
		return nil, err
	}

	return s.Detail(ctx, item.Code)
}

// Complete marks an active task as done.
func (s *ScheduleService) Complete(ctx context.Context, code string) (*TaskView, error) {
	item, err := s.items.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", code, err)
	}

	if err := s.items.MarkCompleted(ctx, item.Code); err != nil {
		return nil, err
	}

	return s.Detail(ctx, item.Code)
}

// Detail returns one task, in any completion state, enriched for display.
func (s *ScheduleService) Detail(ctx context.Context, code string) (*TaskView, error) {
	item, err := s.items.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", code, err)
	}

	views, err := s.views(ctx, []model.ScheduleItem{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// TasksFor returns every task on the given date.
func (s *ScheduleService) TasksFor(ctx context.Context, date string) ([]TaskView, error) {
	items, err := s.items.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items)
}

// ActiveTasksFor returns the non-completed tasks on the given date.
func (s *ScheduleService) ActiveTasksFor(ctx context.Context, date string) ([]TaskView, error) {
	items, err := s.items.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items)
}

// PendingFrom returns the non-completed tasks dated from the given day onward.
func (s *ScheduleService) PendingFrom(ctx context.Context, date string) ([]TaskView, error) {
	items, err := s.items.ListPendingFrom(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items)
}

// Stats aggregates the week containing now. Weeks start on Sunday.
func (s *ScheduleService) Stats(ctx context.Context, now time.Time, loc *time.Location) (WeeklyStats, error) {
	local := now.In(loc)
	weekStart := local.AddDate(0, 0, -int(local.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	from := weekStart.Format("2006-01-02")
	to := weekEnd.Format("2006-01-02")

	items, err := s.items.ListBetween(ctx, from, to)
	if err != nil {
		return WeeklyStats{}, err
	}

	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return WeeklyStats{}, err
	}
	catByID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		catByID[cat.ID] = cat
	}

	stats := WeeklyStats{From: from, To: to, Total: len(items)}
	perCategory := make(map[string]*CategoryCount)
	for _, item := range items {
		if item.IsCompleted {
			stats.Completed++
		}
		name, icon := "Sem categoria", "📋"
		if item.CategoryID != nil {
			if cat, ok := catByID[*item.CategoryID]; ok {
				name, icon = cat.Name, cat.Icon
			}
		}
		entry, ok := perCategory[name]
		if !ok {
			entry = &CategoryCount{Name: name, Icon: icon}
			perCategory[name] = entry
		}
		entry.Count++
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = stats.Completed * 100 / stats.Total
	}

	for _, entry := range perCategory {
		stats.ByCategory = append(stats.ByCategory, *entry)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		if stats.ByCategory[i].Count != stats.ByCategory[j].Count {
			return stats.ByCategory[i].Count > stats.ByCategory[j].Count
		}
		return stats.ByCategory[i].Name < stats.ByCategory[j].Name
	})
	if len(stats.ByCategory) > 5 {
		stats.ByCategory = stats.ByCategory[:5]
	}

	return stats, nil
}

// Status returns the counters the /status command reports.
func (s *ScheduleService) Status(ctx context.Context) (SystemStatus, error) {
	total, _, _, err := s.items.Counts(ctx)
	if err != nil {
		return SystemStatus{}, err
	}
	users, err := s.users.CountActive(ctx)
	if err != nil {
		return SystemStatus{}, err
	}
	categories, err := s.categories.CountActive(ctx)
	if err != nil {
		return SystemStatus{}, err
	}
	return SystemStatus{Tasks: total, ActiveUsers: users, ActiveCategories: categories}, nil
}

// CheckConflict reports the first active item on date whose half-open window
// overlaps [start,end), skipping excludeID. Touching endpoints do not
// conflict. The dashboard CRUD handlers run the same check before writes.
func (s *ScheduleService) CheckConflict(ctx context.Context, date, start, end, excludeID string) (*model.ScheduleItem, error) {
	startMin, err := timeutil.ToMinutes(start)
	if err != nil {
		return nil, err
	}
	endMin, err := timeutil.ToMinutes(end)
	if err != nil {
		return nil, err
	}

	others, err := s.items.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range others {
		other := others[i]
		if other.ID == excludeID {
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
		if timeutil.Overlaps(startMin, endMin, otherStart, otherEnd) {
			return &other, nil
		}
	}
	return nil, nil
}

func (s *ScheduleService) views(ctx context.Context, items []model.ScheduleItem) ([]TaskView, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	catByID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		catByID[cat.ID] = cat
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	userNames := make(map[string]string, len(users))
	for _, user := range users {
		userNames[user.ID] = user.Name
	}

	views := make([]TaskView, 0, len(items))
	for _, item := range items {
		view := TaskView{ScheduleItem: item}
		if item.CategoryID != nil {
			if cat, ok := catByID[*item.CategoryID]; ok {
				view.CategoryName = cat.Name
				view.CategoryIcon = cat.Icon
			}
		}
		if item.AssignedTo != nil {
			view.AssignedToName = userNames[*item.AssignedTo]
		}
		view.CreatedByName = userNames[item.CreatedBy]
		views = append(views, view)
	}
	return views, nil
}
