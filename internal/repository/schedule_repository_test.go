package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agenda-bjj/internal/model"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := NewDB(dsn)
	require.NoError(t, err)
	return db
}

func TestCreateAssignsIDAndCode(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	item := model.ScheduleItem{
		Title: "Treino adulto",
		Date:  "2026-03-02",
		Start: "19:00",
		End:   "20:00",
	}
	require.NoError(t, repo.Create(ctx, &item))

	assert.NotEmpty(t, item.ID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{4}$`), item.Code)

	found, err := repo.FindByCode(ctx, item.Code)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestCreateCodesAreUnique(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		item := model.ScheduleItem{
			Title: fmt.Sprintf("Tarefa %d", i),
			Date:  fmt.Sprintf("2026-04-%02d", i+1),
			Start: "10:00",
			End:   "11:00",
		}
		require.NoError(t, repo.Create(ctx, &item))
		assert.False(t, seen[item.Code], "duplicate code %s", item.Code)
		seen[item.Code] = true
	}
}

func TestCreateRejectsOverlappingActiveItem(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	first := model.ScheduleItem{Code: "AAA1", Title: "Aula", Date: "2026-03-02", Start: "10:00", End: "11:00"}
	require.NoError(t, repo.Create(ctx, &first))

	second := model.ScheduleItem{Code: "AAA2", Title: "Aula", Date: "2026-03-02", Start: "10:30", End: "11:30"}
	err := repo.Create(ctx, &second)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "AAA1", conflict.With.Code)

	// Only the first item persisted.
	active, err := repo.ListActiveByDate(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "AAA1", active[0].Code)
}

func TestCreateAllowsTouchingWindowsAndOtherDates(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	first := model.ScheduleItem{Code: "AAA1", Title: "Aula", Date: "2026-03-02", Start: "10:00", End: "11:00"}
	require.NoError(t, repo.Create(ctx, &first))

	// Touching endpoints share no minute.
	touching := model.ScheduleItem{Code: "AAA2", Title: "Aula", Date: "2026-03-02", Start: "11:00", End: "12:00"}
	require.NoError(t, repo.Create(ctx, &touching))

	// The same window on another day is free.
	otherDay := model.ScheduleItem{Code: "AAA3", Title: "Aula", Date: "2026-03-03", Start: "10:30", End: "11:30"}
	require.NoError(t, repo.Create(ctx, &otherDay))
}

func TestCreateCompletedItemsExemptFromConflict(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	done := model.ScheduleItem{Code: "D0NE", Title: "Aula", Date: "2026-03-02", Start: "10:00", End: "11:00", IsCompleted: true}
	require.NoError(t, repo.Create(ctx, &done))

	// An active item may reuse a slot held only by a historical record.
	active := model.ScheduleItem{Code: "AAA1", Title: "Aula", Date: "2026-03-02", Start: "10:30", End: "11:30"}
	require.NoError(t, repo.Create(ctx, &active))

	// And a historical record may be stored over an active slot.
	record := model.ScheduleItem{Code: "D1D0", Title: "Aula", Date: "2026-03-02", Start: "10:45", End: "11:15", IsCompleted: true}
	require.NoError(t, repo.Create(ctx, &record))
}

func TestFindByCodeIsCaseInsensitive(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	item := model.ScheduleItem{Code: "a1b2", Title: "Aula", Date: "2026-03-02", Start: "10:00", End: "11:00"}
	require.NoError(t, repo.Create(ctx, &item))
	assert.Equal(t, "A1B2", item.Code)

	found, err := repo.FindByCode(ctx, "a1b2")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestFindActiveByCodeSkipsCompleted(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	item := model.ScheduleItem{Code: "C0DE", Title: "Aula", Date: "2026-03-02", Start: "10:00", End: "11:00"}
	require.NoError(t, repo.Create(ctx, &item))

	_, err := repo.FindActiveByCode(ctx, "C0DE")
	require.NoError(t, err)

	require.NoError(t, repo.MarkCompleted(ctx, "C0DE"))

	_, err = repo.FindActiveByCode(ctx, "C0DE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The full lookup still sees it.
	found, err := repo.FindByCode(ctx, "C0DE")
	require.NoError(t, err)
	assert.True(t, found.IsCompleted)
}

func TestUpdateWindowOverwritesReason(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	item := model.ScheduleItem{Code: "AB12", Title: "Aula", Date: "2026-03-02", Start: "10:00", End: "11:00"}
	require.NoError(t, repo.Create(ctx, &item))

	require.NoError(t, repo.UpdateWindow(ctx, "AB12", "11:00", "12:00", "Reagendado via Telegram: +1h"))
	require.NoError(t, repo.UpdateWindow(ctx, "AB12", "13:00", "14:00", "Reagendado via Telegram: +2h"))

	found, err := repo.FindByCode(ctx, "AB12")
	require.NoError(t, err)
	assert.Equal(t, "13:00", found.Start)
	assert.Equal(t, "14:00", found.End)
	// Reason is overwritten, not appended.
	assert.Equal(t, "Reagendado via Telegram: +2h", found.RescheduledReason)
}

func TestListActiveByDateOrdersAndFilters(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	for _, spec := range []struct {
		code, start, end string
		completed        bool
	}{
		{"B001", "14:00", "15:00", false},
		{"B002", "09:00", "10:00", false},
		{"B003", "11:00", "12:00", true},
	} {
		item := model.ScheduleItem{Code: spec.code, Title: "Aula", Date: "2026-03-02", Start: spec.start, End: spec.end, IsCompleted: spec.completed}
		require.NoError(t, repo.Create(ctx, &item))
	}

	active, err := repo.ListActiveByDate(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "B002", active[0].Code)
	assert.Equal(t, "B001", active[1].Code)

	all, err := repo.ListByDate(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListPendingFromAndCounts(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	for _, spec := range []struct {
		code, date string
		completed  bool
	}{
		{"D001", "2026-03-01", false}, // before cutoff
		{"D002", "2026-03-02", false},
		{"D003", "2026-03-03", true},
		{"D004", "2026-03-04", false},
	} {
		item := model.ScheduleItem{Code: spec.code, Title: "Aula", Date: spec.date, Start: "10:00", End: "11:00", IsCompleted: spec.completed}
		require.NoError(t, repo.Create(ctx, &item))
	}

	pending, err := repo.ListPendingFrom(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "D002", pending[0].Code)
	assert.Equal(t, "D004", pending[1].Code)

	total, completed, open, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.EqualValues(t, 1, completed)
	assert.EqualValues(t, 3, open)
}
