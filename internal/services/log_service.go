package services

import (
	"context"
	"time"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	model "task-vault.com/task-vault/internal/models"
	repository "task-vault.com/task-vault/internal/repositories"
)

// maxTaskLogPage caps single-task and export log reads.
const maxTaskLogPage = 1000

type LogService struct {
	store repository.LogStore
}

func NewLogService(store repository.LogStore) *LogService {
	return &LogService{store: store}
}

// List returns a filtered page of audit records together with aggregate
// statistics and an echo of the applied filters.
func (s *LogService) List(ctx context.Context, f dto.LogFilters, limit, offset int) ([]model.TaskLog, int, map[string]interface{}, error) {
	if err := validateLogFilters(f); err != nil {
		return nil, 0, nil, err
	}

	total, err := s.store.CountWithFilters(ctx, f)
	if err != nil {
		return nil, 0, nil, err
	}

	logs, err := s.store.FindWithFilters(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, nil, err
	}

	byAction, err := s.store.CountByAction(ctx)
	if err != nil {
		return nil, 0, nil, err
	}

	stats := map[string]interface{}{
		"total":           total,
		"returned":        len(logs),
		"by_action":       actionCountsPayload(byAction),
		"applied_filters": f.Echo(),
	}
	return logs, total, stats, nil
}

func (s *LogService) Get(ctx context.Context, id string) (*model.TaskLog, error) {
	if !model.ValidLogID(id) {
		return nil, apperrors.ErrInvalidLogID
	}
	return s.store.FindByID(ctx, id)
}

// TaskLogs returns all entries for one task, newest first, capped.
func (s *LogService) TaskLogs(ctx context.Context, taskID uint, limit int) ([]model.TaskLog, error) {
	if limit <= 0 || limit > maxTaskLogPage {
		limit = maxTaskLogPage
	}
	return s.store.FindByTask(ctx, taskID, limit)
}

func (s *LogService) Recent(ctx context.Context, limit int) ([]model.TaskLog, error) {
	if limit <= 0 || limit > maxTaskLogPage {
		limit = maxTaskLogPage
	}
	return s.store.FindRecent(ctx, limit)
}

func (s *LogService) ByAction(ctx context.Context, action string, limit, offset int) ([]model.TaskLog, int, error) {
	if !constants.LogAction(action).Valid() {
		return nil, 0, apperrors.NewValidationError(
			"unrecognized action value",
			map[string]string{"action": action},
		)
	}

	f := dto.LogFilters{Action: action}
	total, err := s.store.CountWithFilters(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	logs, err := s.store.FindWithFilters(ctx, f, limit, offset)
	return logs, total, err
}

func (s *LogService) ByUser(ctx context.Context, userID uint, limit, offset int) ([]model.TaskLog, int, error) {
	f := dto.LogFilters{UserID: &userID}
	total, err := s.store.CountWithFilters(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	logs, err := s.store.FindWithFilters(ctx, f, limit, offset)
	return logs, total, err
}

func (s *LogService) DateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]model.TaskLog, int, error) {
	if to.Before(from) {
		return nil, 0, apperrors.NewValidationError(
			"date_to must not be before date_from",
			map[string]string{"date_from": from.Format(time.RFC3339), "date_to": to.Format(time.RFC3339)},
		)
	}

	f := dto.LogFilters{From: &from, To: &to}
	total, err := s.store.CountWithFilters(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	logs, err := s.store.FindWithFilters(ctx, f, limit, offset)
	return logs, total, err
}

// Stats aggregates counts by action type and by day over an optional range.
// All figures are computed from the same record set, paged in full so the
// totals and the breakdowns agree.
func (s *LogService) Stats(ctx context.Context, from, to *time.Time) (map[string]interface{}, error) {
	f := dto.LogFilters{From: from, To: to}

	total, err := s.store.CountWithFilters(ctx, f)
	if err != nil {
		return nil, err
	}

	byDay := map[string]int{}
	byAction := map[constants.LogAction]int{}
	for offset := 0; ; offset += maxTaskLogPage {
		page, err := s.store.FindWithFilters(ctx, f, maxTaskLogPage, offset)
		if err != nil {
			return nil, err
		}
		for _, l := range page {
			byDay[l.CreatedAt.UTC().Format("2006-01-02")]++
			byAction[l.Action]++
		}
		if len(page) < maxTaskLogPage {
			break
		}
	}

	return map[string]interface{}{
		"total":     total,
		"by_action": actionCountsPayload(byAction),
		"by_day":    byDay,
	}, nil
}

// Export returns a capped dump of the most recent records.
func (s *LogService) Export(ctx context.Context) ([]model.TaskLog, error) {
	return s.store.FindRecent(ctx, maxTaskLogPage)
}

// Cleanup removes entries older than the retention window and reports how
// many were deleted.
func (s *LogService) Cleanup(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, apperrors.NewValidationError(
			"retention_days must be a positive integer",
			map[string]string{"retention_days": "must be >= 1"},
		)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return s.store.DeleteOlderThan(ctx, cutoff)
}

func validateLogFilters(f dto.LogFilters) error {
	if f.Action != "" && !constants.LogAction(f.Action).Valid() {
		return apperrors.NewValidationError(
			"unrecognized action value",
			map[string]string{"action": f.Action},
		)
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		return apperrors.NewValidationError(
			"sort_order must be asc or desc",
			map[string]string{"sort_order": f.SortOrder},
		)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return apperrors.NewValidationError(
			"date_to must not be before date_from",
			map[string]string{"date_to": "before date_from"},
		)
	}
	return nil
}

func actionCountsPayload(counts map[constants.LogAction]int) map[string]int {
	payload := make(map[string]int, len(counts))
	for action, n := range counts {
		payload[string(action)] = n
	}
	return payload
}
