package services

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	"task-vault.com/task-vault/internal/lock"
	model "task-vault.com/task-vault/internal/models"
	repository "task-vault.com/task-vault/internal/repositories"
)

type TaskService struct {
	repo  *repository.TaskRepository
	logs  repository.LogStore
	locks *lock.KeyedMutex
}

func NewTaskService(repo *repository.TaskRepository, logs repository.LogStore, locks *lock.KeyedMutex) *TaskService {
	return &TaskService{
		repo:  repo,
		logs:  logs,
		locks: locks,
	}
}

func (s *TaskService) Create(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      constants.StatusPending,
		Priority:    constants.PriorityMedium,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   req.CreatedBy,
		DueDate:     req.DueDate,
	}
	if req.Status != "" {
		task.Status = constants.TaskStatus(req.Status)
	}
	if req.Priority != "" {
		task.Priority = constants.TaskPriority(req.Priority)
	}
	if task.Status == constants.StatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.emitLog(ctx, &model.TaskLog{
		TaskID:      task.ID,
		Action:      constants.ActionCreated,
		NewData:     task.Snapshot(),
		UserID:      logUserID(task.CreatedBy),
		Description: "Task created",
	})

	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context, f dto.TaskFilters) ([]model.Task, int, error) {
	total, err := s.repo.CountWithFilters(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	tasks, err := s.repo.FindWithFilters(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return tasks, int(total), nil
}

// Update applies a sparse update and reports which tracked fields actually
// changed. An update that changes nothing is not an error.
func (s *TaskService) Update(ctx context.Context, id uint, req dto.UpdateTaskRequest) (*model.Task, []string, error) {
	return s.mutate(ctx, id, "Task updated", func(current *model.Task) (map[string]interface{}, error) {
		fields := map[string]interface{}{}
		if req.Title != nil {
			fields["title"] = *req.Title
		}
		if req.Description != nil {
			fields["description"] = *req.Description
		}
		if req.Priority != nil {
			fields["priority"] = *req.Priority
		}
		if req.AssignedTo != nil {
			fields["assigned_to"] = *req.AssignedTo
		}
		if req.DueDate != nil {
			fields["due_date"] = *req.DueDate
		}
		if req.Status != nil {
			if err := applyStatusChange(current, constants.TaskStatus(*req.Status), fields); err != nil {
				return nil, err
			}
		}
		return fields, nil
	})
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	key := lockKey(id)
	token, ok := s.locks.TryAcquire(key)
	if !ok {
		return apperrors.ErrLockHeld
	}
	defer s.locks.Release(key, token)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.emitLog(ctx, &model.TaskLog{
		TaskID:      id,
		Action:      constants.ActionDeleted,
		OldData:     current.Snapshot(),
		UserID:      logUserID(current.CreatedBy),
		Description: "Task moved to trash",
	})
	return nil
}

func (s *TaskService) Restore(ctx context.Context, id uint) (*model.Task, error) {
	key := lockKey(id)
	token, ok := s.locks.TryAcquire(key)
	if !ok {
		return nil, apperrors.ErrLockHeld
	}
	defer s.locks.Release(key, token)

	task, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitLog(ctx, &model.TaskLog{
		TaskID:      task.ID,
		Action:      constants.ActionRestored,
		NewData:     task.Snapshot(),
		UserID:      logUserID(task.CreatedBy),
		Description: "Task restored from trash",
	})
	return task, nil
}

// ForceDelete permanently removes a task that exists either active or in
// the trash. Irreversible.
func (s *TaskService) ForceDelete(ctx context.Context, id uint) error {
	key := lockKey(id)
	token, ok := s.locks.TryAcquire(key)
	if !ok {
		return apperrors.ErrLockHeld
	}
	defer s.locks.Release(key, token)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		current, err = s.repo.FindTrashedByID(ctx, id)
		if err != nil {
			return apperrors.ErrTaskNotFound
		}
	}

	if err := s.repo.ForceDelete(ctx, id); err != nil {
		return err
	}

	s.emitLog(ctx, &model.TaskLog{
		TaskID:      id,
		Action:      constants.ActionForceDeleted,
		OldData:     current.Snapshot(),
		UserID:      logUserID(current.CreatedBy),
		Description: "Task permanently deleted",
	})
	return nil
}

func (s *TaskService) Trashed(ctx context.Context) ([]model.Task, error) {
	return s.repo.FindTrashed(ctx)
}

func (s *TaskService) Stats(ctx context.Context) (map[string]interface{}, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	counts := map[string]int64{}
	for status, n := range byStatus {
		counts[string(status)] = n
		total += n
	}

	return map[string]interface{}{
		"total":     total,
		"by_status": counts,
		"overdue":   overdue,
	}, nil
}

func (s *TaskService) Assign(ctx context.Context, id, userID uint) (*model.Task, []string, error) {
	return s.mutate(ctx, id, fmt.Sprintf("Task assigned to user %d", userID), func(current *model.Task) (map[string]interface{}, error) {
		return map[string]interface{}{"assigned_to": userID}, nil
	})
}

func (s *TaskService) Unassign(ctx context.Context, id uint) (*model.Task, []string, error) {
	return s.mutate(ctx, id, "Task unassigned", func(current *model.Task) (map[string]interface{}, error) {
		return map[string]interface{}{"assigned_to": nil}, nil
	})
}

func (s *TaskService) MarkInProgress(ctx context.Context, id uint) (*model.Task, []string, error) {
	return s.mutate(ctx, id, "Task started", func(current *model.Task) (map[string]interface{}, error) {
		fields := map[string]interface{}{}
		if err := applyStatusChange(current, constants.StatusInProgress, fields); err != nil {
			return nil, err
		}
		return fields, nil
	})
}

func (s *TaskService) MarkComplete(ctx context.Context, id uint) (*model.Task, []string, error) {
	return s.mutate(ctx, id, "Task completed", func(current *model.Task) (map[string]interface{}, error) {
		fields := map[string]interface{}{}
		if err := applyStatusChange(current, constants.StatusCompleted, fields); err != nil {
			return nil, err
		}
		return fields, nil
	})
}

func (s *TaskService) MarkCancelled(ctx context.Context, id uint) (*model.Task, []string, error) {
	return s.mutate(ctx, id, "Task cancelled", func(current *model.Task) (map[string]interface{}, error) {
		fields := map[string]interface{}{}
		if err := applyStatusChange(current, constants.StatusCancelled, fields); err != nil {
			return nil, err
		}
		return fields, nil
	})
}

// mutate is the shared path for single-task mutations: acquire the per-task
// lock, load the row, build the sparse field map, persist, diff, and emit
// the audit record.
func (s *TaskService) mutate(
	ctx context.Context,
	id uint,
	description string,
	build func(current *model.Task) (map[string]interface{}, error),
) (*model.Task, []string, error) {
	key := lockKey(id)
	token, ok := s.locks.TryAcquire(key)
	if !ok {
		return nil, nil, apperrors.ErrLockHeld
	}
	defer s.locks.Release(key, token)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	fields, err := build(current)
	if err != nil {
		return nil, nil, err
	}

	before := current.Snapshot()

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, nil, err
	}

	after := updated.Snapshot()
	changed := changedFields(before, after)
	if len(changed) == 0 {
		return updated, changed, nil
	}

	oldData := map[string]interface{}{}
	newData := map[string]interface{}{}
	for _, field := range changed {
		oldData[field] = before[field]
		newData[field] = after[field]
	}

	s.emitLog(ctx, &model.TaskLog{
		TaskID:      id,
		Action:      constants.ActionUpdated,
		OldData:     oldData,
		NewData:     newData,
		UserID:      logUserID(updated.CreatedBy),
		Description: description,
	})

	return updated, changed, nil
}

func (s *TaskService) BulkCreate(ctx context.Context, reqs []dto.CreateTaskRequest, validate func(*dto.CreateTaskRequest) error) dto.BulkSummary {
	results := make([]dto.BulkItemResult, 0, len(reqs))
	for i := range reqs {
		req := reqs[i]
		if err := validate(&req); err != nil {
			results = append(results, dto.BulkItemResult{Index: i, Error: err.Error()})
			continue
		}
		task, err := s.Create(ctx, req)
		if err != nil {
			results = append(results, dto.BulkItemResult{Index: i, Error: err.Error()})
			continue
		}
		results = append(results, dto.BulkItemResult{Index: i, ID: task.ID, Success: true, Data: task})
	}
	return dto.NewBulkSummary(results)
}

func (s *TaskService) BulkUpdate(ctx context.Context, items []dto.BulkUpdateItem, validate func(*dto.UpdateTaskRequest) error) dto.BulkSummary {
	results := make([]dto.BulkItemResult, 0, len(items))
	for i, item := range items {
		if err := validate(&item.UpdateTaskRequest); err != nil {
			results = append(results, dto.BulkItemResult{Index: i, ID: item.ID, Error: err.Error()})
			continue
		}
		task, _, err := s.Update(ctx, item.ID, item.UpdateTaskRequest)
		if err != nil {
			results = append(results, dto.BulkItemResult{Index: i, ID: item.ID, Error: err.Error()})
			continue
		}
		results = append(results, dto.BulkItemResult{Index: i, ID: task.ID, Success: true, Data: task})
	}
	return dto.NewBulkSummary(results)
}

func (s *TaskService) BulkDelete(ctx context.Context, ids []uint) dto.BulkSummary {
	results := make([]dto.BulkItemResult, 0, len(ids))
	for i, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			results = append(results, dto.BulkItemResult{Index: i, ID: id, Error: err.Error()})
			continue
		}
		results = append(results, dto.BulkItemResult{Index: i, ID: id, Success: true})
	}
	return dto.NewBulkSummary(results)
}

// emitLog writes the audit record best-effort: a logging failure is warned
// and never surfaced to the caller.
func (s *TaskService) emitLog(ctx context.Context, entry *model.TaskLog) {
	if err := s.logs.Create(ctx, entry); err != nil {
		log.Printf("audit log write failed for task %d (%s): %v", entry.TaskID, entry.Action, err)
	}
}

func applyStatusChange(current *model.Task, target constants.TaskStatus, fields map[string]interface{}) error {
	if !constants.CanTransition(current.Status, target) {
		return apperrors.NewValidationError(
			fmt.Sprintf("illegal status transition from %s to %s", current.Status, target),
			map[string]string{"from": string(current.Status), "to": string(target)},
		)
	}
	fields["status"] = target
	if target == constants.StatusCompleted && current.Status != constants.StatusCompleted {
		fields["completed_at"] = time.Now().UTC()
	}
	return nil
}

func changedFields(before, after map[string]interface{}) []string {
	changed := []string{}
	for _, field := range model.TrackedFields {
		if !reflect.DeepEqual(before[field], after[field]) {
			changed = append(changed, field)
		}
	}
	return changed
}

func lockKey(id uint) string {
	return fmt.Sprintf("task_update_%d", id)
}

func logUserID(userID *uint) uint {
	if userID != nil {
		return *userID
	}
	return constants.SystemUserID
}
