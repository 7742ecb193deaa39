package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	model "task-vault.com/task-vault/internal/models"
)

const (
	logDocPrefix     = "tasklog:"
	logTaskPrefix    = "tasklog:task:"
	logTimeIndexKey  = "tasklog:by_time"
	logActionHashKey = "tasklog:actions"

	// scanWindow caps how many index entries a filtered query inspects.
	scanWindow = 10000
)

// RedisLogRepository stores each audit record as a JSON document keyed by
// its id, with a time-ordered index, per-task lists, and action counters.
// A nil client puts the repository permanently in fallback mode.
type RedisLogRepository struct {
	client rueidis.Client
}

func NewRedisLogRepository(client rueidis.Client) *RedisLogRepository {
	return &RedisLogRepository{client: client}
}

func (r *RedisLogRepository) Create(ctx context.Context, entry *model.TaskLog) error {
	if r.client == nil {
		return fmt.Errorf("log store unavailable")
	}

	if entry.ID == "" {
		entry.ID = model.NewLogID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	cmds := []rueidis.Completed{
		r.client.B().Set().Key(logDocPrefix + entry.ID).Value(string(doc)).Build(),
		r.client.B().Zadd().Key(logTimeIndexKey).ScoreMember().
			ScoreMember(float64(entry.CreatedAt.UnixMilli()), entry.ID).Build(),
		r.client.B().Lpush().Key(taskListKey(entry.TaskID)).Element(entry.ID).Build(),
		r.client.B().Hincrby().Key(logActionHashKey).Field(string(entry.Action)).Increment(1).Build(),
	}

	for _, cmd := range cmds {
		if err := r.client.Do(ctx, cmd).Error(); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisLogRepository) FindByID(ctx context.Context, id string) (*model.TaskLog, error) {
	if r.client == nil {
		return findDemoLog(id)
	}

	resp := r.client.Do(ctx, r.client.B().Get().Key(logDocPrefix+id).Build())
	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, apperrors.ErrLogNotFound
		}
		r.warnFallback("FindByID", err)
		return findDemoLog(id)
	}

	raw, err := resp.ToString()
	if err != nil {
		return nil, err
	}
	return unmarshalLog(raw)
}

func (r *RedisLogRepository) FindByTask(ctx context.Context, taskID uint, limit int) ([]model.TaskLog, error) {
	if r.client == nil {
		return filterDemoLogs(func(l model.TaskLog) bool { return l.TaskID == taskID }, limit), nil
	}

	resp := r.client.Do(ctx, r.client.B().Lrange().
		Key(taskListKey(taskID)).Start(0).Stop(int64(limit-1)).Build())
	ids, err := resp.AsStrSlice()
	if err != nil {
		r.warnFallback("FindByTask", err)
		return filterDemoLogs(func(l model.TaskLog) bool { return l.TaskID == taskID }, limit), nil
	}

	return r.fetchDocs(ctx, ids)
}

func (r *RedisLogRepository) FindRecent(ctx context.Context, limit int) ([]model.TaskLog, error) {
	if r.client == nil {
		return filterDemoLogs(nil, limit), nil
	}

	ids, err := r.idsByTimeDesc(ctx, nil, nil, 0, limit)
	if err != nil {
		r.warnFallback("FindRecent", err)
		return filterDemoLogs(nil, limit), nil
	}
	return r.fetchDocs(ctx, ids)
}

func (r *RedisLogRepository) FindWithFilters(ctx context.Context, f dto.LogFilters, limit, offset int) ([]model.TaskLog, error) {
	logs, err := r.filteredLogs(ctx, f)
	if err != nil {
		r.warnFallback("FindWithFilters", err)
		logs = filterDemoLogs(matchFilters(f), scanWindow)
	}

	if f.SortOrder == "asc" {
		reverseLogs(logs)
	}
	if offset >= len(logs) {
		return []model.TaskLog{}, nil
	}
	logs = logs[offset:]
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *RedisLogRepository) CountWithFilters(ctx context.Context, f dto.LogFilters) (int, error) {
	logs, err := r.filteredLogs(ctx, f)
	if err != nil {
		r.warnFallback("CountWithFilters", err)
		logs = filterDemoLogs(matchFilters(f), scanWindow)
	}
	return len(logs), nil
}

func (r *RedisLogRepository) CountByAction(ctx context.Context) (map[constants.LogAction]int, error) {
	counts := make(map[constants.LogAction]int)

	if r.client == nil {
		return demoActionCounts(), nil
	}

	resp := r.client.Do(ctx, r.client.B().Hgetall().Key(logActionHashKey).Build())
	raw, err := resp.AsStrMap()
	if err != nil {
		r.warnFallback("CountByAction", err)
		return demoActionCounts(), nil
	}

	for action, value := range raw {
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		counts[constants.LogAction(action)] = n
	}
	return counts, nil
}

func (r *RedisLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if r.client == nil {
		return 0, fmt.Errorf("log store unavailable")
	}

	resp := r.client.Do(ctx, r.client.B().Zrangebyscore().
		Key(logTimeIndexKey).Min("-inf").
		Max(strconv.FormatInt(cutoff.UnixMilli(), 10)).Build())
	ids, err := resp.AsStrSlice()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		entry, err := r.FindByID(ctx, id)
		if err == nil {
			_ = r.client.Do(ctx, r.client.B().Lrem().
				Key(taskListKey(entry.TaskID)).Count(0).Element(id).Build()).Error()
			_ = r.client.Do(ctx, r.client.B().Hincrby().
				Key(logActionHashKey).Field(string(entry.Action)).Increment(-1).Build()).Error()
		}

		if err := r.client.Do(ctx, r.client.B().Del().Key(logDocPrefix+id).Build()).Error(); err != nil {
			return removed, err
		}
		if err := r.client.Do(ctx, r.client.B().Zrem().Key(logTimeIndexKey).Member(id).Build()).Error(); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (r *RedisLogRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("log store unavailable")
	}
	return r.client.Do(ctx, r.client.B().Ping().Build()).Error()
}

func (r *RedisLogRepository) filteredLogs(ctx context.Context, f dto.LogFilters) ([]model.TaskLog, error) {
	if r.client == nil {
		return nil, fmt.Errorf("log store unavailable")
	}

	var ids []string
	var err error
	if f.TaskID != nil {
		resp := r.client.Do(ctx, r.client.B().Lrange().
			Key(taskListKey(*f.TaskID)).Start(0).Stop(scanWindow-1).Build())
		ids, err = resp.AsStrSlice()
	} else {
		ids, err = r.idsByTimeDesc(ctx, f.From, f.To, 0, scanWindow)
	}
	if err != nil {
		return nil, err
	}

	logs, err := r.fetchDocs(ctx, ids)
	if err != nil {
		return nil, err
	}

	match := matchFilters(f)
	filtered := logs[:0]
	for _, l := range logs {
		if match == nil || match(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (r *RedisLogRepository) idsByTimeDesc(ctx context.Context, from, to *time.Time, offset, limit int) ([]string, error) {
	max := "+inf"
	if to != nil {
		max = strconv.FormatInt(to.UnixMilli(), 10)
	}
	min := "-inf"
	if from != nil {
		min = strconv.FormatInt(from.UnixMilli(), 10)
	}

	resp := r.client.Do(ctx, r.client.B().Zrevrangebyscore().
		Key(logTimeIndexKey).Max(max).Min(min).
		Limit(int64(offset), int64(limit)).Build())
	return resp.AsStrSlice()
}

func (r *RedisLogRepository) fetchDocs(ctx context.Context, ids []string) ([]model.TaskLog, error) {
	if len(ids) == 0 {
		return []model.TaskLog{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = logDocPrefix + id
	}

	resp := r.client.Do(ctx, r.client.B().Mget().Key(keys...).Build())
	messages, err := resp.ToArray()
	if err != nil {
		return nil, err
	}

	logs := make([]model.TaskLog, 0, len(messages))
	for _, msg := range messages {
		raw, err := msg.ToString()
		if err != nil {
			// index entry without a document, skip
			continue
		}
		entry, err := unmarshalLog(raw)
		if err != nil {
			continue
		}
		logs = append(logs, *entry)
	}
	return logs, nil
}

func (r *RedisLogRepository) warnFallback(op string, err error) {
	log.Printf("log store unreachable during %s, serving demo records: %v", op, err)
}

func taskListKey(taskID uint) string {
	return logTaskPrefix + strconv.FormatUint(uint64(taskID), 10)
}

func unmarshalLog(raw string) (*model.TaskLog, error) {
	var entry model.TaskLog
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("unmarshal log entry: %w", err)
	}
	return &entry, nil
}

func matchFilters(f dto.LogFilters) func(model.TaskLog) bool {
	return func(l model.TaskLog) bool {
		if f.Action != "" && string(l.Action) != f.Action {
			return false
		}
		if f.TaskID != nil && l.TaskID != *f.TaskID {
			return false
		}
		if f.UserID != nil && l.UserID != *f.UserID {
			return false
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && l.CreatedAt.After(*f.To) {
			return false
		}
		return true
	}
}

func reverseLogs(logs []model.TaskLog) {
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
}

func findDemoLog(id string) (*model.TaskLog, error) {
	for _, l := range demoLogs() {
		if l.ID == id {
			entry := l
			return &entry, nil
		}
	}
	return nil, apperrors.ErrLogNotFound
}

func filterDemoLogs(match func(model.TaskLog) bool, limit int) []model.TaskLog {
	out := []model.TaskLog{}
	for _, l := range demoLogs() {
		if match != nil && !match(l) {
			continue
		}
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func demoActionCounts() map[constants.LogAction]int {
	counts := make(map[constants.LogAction]int)
	for _, l := range demoLogs() {
		counts[l.Action]++
	}
	return counts
}
