package repository

import (
	"context"
	"errors"
	"testing"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	model "task-vault.com/task-vault/internal/models"
)

// With no client the repository stays in fallback mode: reads serve the
// demo records, writes fail.
func TestRedisLogRepository_FallbackReads(t *testing.T) {
	repo := NewRedisLogRepository(nil)
	ctx := context.Background()

	recent, err := repo.FindRecent(ctx, 10)
	if err != nil {
		t.Fatalf("fallback read failed: %v", err)
	}
	if len(recent) == 0 {
		t.Fatal("fallback should serve representative records")
	}
	for _, entry := range recent {
		if !model.ValidLogID(entry.ID) {
			t.Errorf("demo record id %q is not a 24-char hex id", entry.ID)
		}
	}

	entry, err := repo.FindByID(ctx, recent[0].ID)
	if err != nil {
		t.Fatalf("fallback FindByID failed: %v", err)
	}
	if entry.ID != recent[0].ID {
		t.Errorf("expected record %s, got %s", recent[0].ID, entry.ID)
	}

	if _, err := repo.FindByID(ctx, model.NewLogID()); !errors.Is(err, apperrors.ErrLogNotFound) {
		t.Errorf("unknown id should be not-found, got %v", err)
	}
}

func TestRedisLogRepository_FallbackFilters(t *testing.T) {
	repo := NewRedisLogRepository(nil)
	ctx := context.Background()

	logs, err := repo.FindWithFilters(ctx, dto.LogFilters{Action: "created"}, 10, 0)
	if err != nil {
		t.Fatalf("fallback filtered read failed: %v", err)
	}
	for _, l := range logs {
		if l.Action != constants.ActionCreated {
			t.Errorf("filter leaked action %s", l.Action)
		}
	}

	counts, err := repo.CountByAction(ctx)
	if err != nil {
		t.Fatalf("fallback count failed: %v", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	all, _ := repo.FindWithFilters(ctx, dto.LogFilters{}, scanWindow, 0)
	if total != len(all) {
		t.Errorf("action counts (%d) should cover all demo records (%d)", total, len(all))
	}
}

func TestRedisLogRepository_FallbackWritesFail(t *testing.T) {
	repo := NewRedisLogRepository(nil)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.TaskLog{TaskID: 1, Action: constants.ActionCreated}); err == nil {
		t.Error("create without a store should fail")
	}
	if err := repo.Ping(ctx); err == nil {
		t.Error("ping without a store should fail")
	}
}
