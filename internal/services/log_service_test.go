package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	model "task-vault.com/task-vault/internal/models"
)

func seedLogs(t *testing.T, store *memoryLogStore) []model.TaskLog {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	entries := []model.TaskLog{
		{TaskID: 1, Action: constants.ActionCreated, UserID: 5, Description: "Task created", CreatedAt: base},
		{TaskID: 1, Action: constants.ActionUpdated, UserID: 5, Description: "Task updated", CreatedAt: base.Add(time.Hour)},
		{TaskID: 2, Action: constants.ActionCreated, UserID: 9, Description: "Task created", CreatedAt: base.Add(2 * time.Hour)},
		{TaskID: 2, Action: constants.ActionDeleted, UserID: 9, Description: "Task moved to trash", CreatedAt: base.Add(48 * time.Hour)},
	}

	seeded := make([]model.TaskLog, 0, len(entries))
	for i := range entries {
		entry := entries[i]
		require.NoError(t, store.Create(ctx, &entry))
		seeded = append(seeded, entry)
	}
	return seeded
}

func TestLogService_ListWithStats(t *testing.T) {
	store := &memoryLogStore{}
	seedLogs(t, store)
	service := NewLogService(store)

	logs, total, stats, err := service.List(context.Background(), dto.LogFilters{}, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, total)
	assert.Len(t, logs, 4)
	assert.Equal(t, 4, stats["total"])
	assert.Equal(t, 4, stats["returned"])

	byAction := stats["by_action"].(map[string]int)
	assert.Equal(t, 2, byAction["created"])
	assert.Equal(t, 1, byAction["updated"])
	assert.Equal(t, 1, byAction["deleted"])
}

func TestLogService_ListRejectsUnknownAction(t *testing.T) {
	service := NewLogService(&memoryLogStore{})

	_, _, _, err := service.List(context.Background(), dto.LogFilters{Action: "exploded"}, 10, 0)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.StatusCode(err))
}

func TestLogService_GetRejectsMalformedID(t *testing.T) {
	service := NewLogService(&memoryLogStore{})

	_, err := service.Get(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidLogID)
	assert.Equal(t, 422, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "24-character hexadecimal")
}

func TestLogService_GetByID(t *testing.T) {
	store := &memoryLogStore{}
	seeded := seedLogs(t, store)
	service := NewLogService(store)

	entry, err := service.Get(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seeded[0].TaskID, entry.TaskID)

	_, err = service.Get(context.Background(), model.NewLogID())
	assert.ErrorIs(t, err, apperrors.ErrLogNotFound)
}

func TestLogService_TaskLogsNewestFirst(t *testing.T) {
	store := &memoryLogStore{}
	seedLogs(t, store)
	service := NewLogService(store)

	logs, err := service.TaskLogs(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, constants.ActionUpdated, logs[0].Action)
	assert.Equal(t, constants.ActionCreated, logs[1].Action)
}

func TestLogService_ByUser(t *testing.T) {
	store := &memoryLogStore{}
	seedLogs(t, store)
	service := NewLogService(store)

	logs, total, err := service.ByUser(context.Background(), 9, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, logs, 2)
}

func TestLogService_DateRangeValidation(t *testing.T) {
	service := NewLogService(&memoryLogStore{})

	from := time.Now().UTC()
	to := from.Add(-time.Hour)
	_, _, err := service.DateRange(context.Background(), from, to, 10, 0)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.StatusCode(err))
}

func TestLogService_StatsBucketsByDay(t *testing.T) {
	store := &memoryLogStore{}
	seedLogs(t, store)
	service := NewLogService(store)

	stats, err := service.Stats(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, stats["total"])
	byDay := stats["by_day"].(map[string]int)
	buckets := 0
	for _, n := range byDay {
		buckets += n
	}
	assert.Equal(t, 4, buckets)
	assert.Len(t, byDay, 2)
}

func TestLogService_CleanupRemovesOldEntries(t *testing.T) {
	store := &memoryLogStore{}
	ctx := context.Background()

	old := model.TaskLog{TaskID: 1, Action: constants.ActionCreated, CreatedAt: time.Now().UTC().AddDate(0, 0, -120)}
	fresh := model.TaskLog{TaskID: 1, Action: constants.ActionUpdated, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Create(ctx, &old))
	require.NoError(t, store.Create(ctx, &fresh))

	service := NewLogService(store)

	removed, err := service.Cleanup(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	remaining, err := service.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, constants.ActionUpdated, remaining[0].Action)
}

func TestLogService_CleanupRejectsBadRetention(t *testing.T) {
	service := NewLogService(&memoryLogStore{})

	_, err := service.Cleanup(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.StatusCode(err))
}

func TestLogService_StatsRangeScoped(t *testing.T) {
	store := &memoryLogStore{}
	seedLogs(t, store)
	service := NewLogService(store)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	stats, err := service.Stats(context.Background(), &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 3, stats["total"])
	byAction := stats["by_action"].(map[string]int)
	assert.Equal(t, 2, byAction["created"])
	assert.Equal(t, 1, byAction["updated"])
	assert.Equal(t, 0, byAction["deleted"])
	assert.Equal(t, map[string]int{"2025-03-10": 3}, stats["by_day"].(map[string]int))
}

func TestLogService_StatsCoversAllPages(t *testing.T) {
	store := &memoryLogStore{}
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxTaskLogPage+5; i++ {
		entry := model.TaskLog{TaskID: 1, Action: constants.ActionUpdated, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, store.Create(ctx, &entry))
	}
	service := NewLogService(store)

	stats, err := service.Stats(ctx, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, maxTaskLogPage+5, stats["total"])
	assert.Equal(t, maxTaskLogPage+5, stats["by_day"].(map[string]int)["2025-03-10"])
	assert.Equal(t, maxTaskLogPage+5, stats["by_action"].(map[string]int)["updated"])
}
