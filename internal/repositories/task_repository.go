package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	model "task-vault.com/task-vault/internal/models"
	"task-vault.com/task-vault/internal/retry"
)

type TaskRepository struct {
	db    *gorm.DB
	retry retry.Config
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, retry: retry.DefaultConfig()}
}

// sortableFields whitelists sort_by values against column injection.
var sortableFields = map[string]string{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return retry.Do(ctx, r.retry, func() error {
		return r.db.WithContext(ctx).Create(task).Error
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindWithFilters(ctx context.Context, f dto.TaskFilters) ([]model.Task, error) {
	var tasks []model.Task

	query := r.applyFilters(r.db.WithContext(ctx).Model(&model.Task{}), f)
	query = query.Order(r.sortClause(f))
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) CountWithFilters(ctx context.Context, f dto.TaskFilters) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&model.Task{}), f)
	err := query.Count(&count).Error
	return count, err
}

// Update applies a sparse field map and returns the refreshed row.
func (r *TaskRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Task, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	err := retry.Do(ctx, r.retry, func() error {
		res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id uint) error {
	return retry.Do(ctx, r.retry, func() error {
		res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}
		return nil
	})
}

// Restore clears the soft-delete marker. An active task yields a conflict
// with reason already_restored; a missing id yields not_found.
func (r *TaskRepository) Restore(ctx context.Context, id uint) (*model.Task, error) {
	var active model.Task
	err := r.db.WithContext(ctx).First(&active, "id = ?", id).Error
	if err == nil {
		return nil, apperrors.ErrAlreadyRestored
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	trashed, err := r.FindTrashedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = retry.Do(ctx, r.retry, func() error {
		return r.db.WithContext(ctx).Unscoped().Model(&model.Task{}).
			Where("id = ?", trashed.ID).
			Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

// ForceDelete permanently removes a task, whether active or trashed.
func (r *TaskRepository) ForceDelete(ctx context.Context, id uint) error {
	return retry.Do(ctx, r.retry, func() error {
		res := r.db.WithContext(ctx).Unscoped().Delete(&model.Task{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}
		return nil
	})
}

func (r *TaskRepository) FindTrashed(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindTrashedByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Unscoped().
		First(&task, "id = ? AND deleted_at IS NOT NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound.WithDetails(map[string]string{"reason": "not_found"})
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context) (map[constants.TaskStatus]int64, error) {
	type row struct {
		Status constants.TaskStatus
		Count  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[constants.TaskStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *TaskRepository) CountOverdue(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("due_date IS NOT NULL AND due_date < ? AND status NOT IN ?",
			time.Now().UTC(),
			[]constants.TaskStatus{constants.StatusCompleted, constants.StatusCancelled}).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) applyFilters(query *gorm.DB, f dto.TaskFilters) *gorm.DB {
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.CreatedBy != nil {
		query = query.Where("created_by = ?", *f.CreatedBy)
	}
	if f.Overdue != nil && *f.Overdue {
		query = query.Where("due_date IS NOT NULL AND due_date < ? AND status NOT IN ?",
			time.Now().UTC(),
			[]constants.TaskStatus{constants.StatusCompleted, constants.StatusCancelled})
	}
	if f.DueDateFrom != nil {
		query = query.Where("due_date >= ?", *f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		query = query.Where("due_date <= ?", *f.DueDateTo)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	return query
}

func (r *TaskRepository) sortClause(f dto.TaskFilters) string {
	column, ok := sortableFields[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "desc"
	if f.SortOrder == "asc" {
		direction = "asc"
	}
	return column + " " + direction
}
