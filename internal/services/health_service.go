package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"gorm.io/gorm"

	config "task-vault.com/task-vault/internal/configs"
	repository "task-vault.com/task-vault/internal/repositories"
)

type ConnectionStatus struct {
	Name           string `json:"name"`
	Healthy        bool   `json:"healthy"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

type HealthReport struct {
	Status      string             `json:"status"`
	Connections []ConnectionStatus `json:"connections"`
	UptimeSec   int64              `json:"uptime_seconds"`
	MemoryMB    uint64             `json:"memory_mb"`
	Goroutines  int                `json:"goroutines"`
	CheckedAt   time.Time          `json:"checked_at"`
}

type HealthService struct {
	db        *gorm.DB
	logs      repository.LogStore
	cfg       config.Config
	startedAt time.Time
}

func NewHealthService(db *gorm.DB, logs repository.LogStore, cfg config.Config) *HealthService {
	return &HealthService{
		db:        db,
		logs:      logs,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// Check pings both stores and reports overall status: healthy iff every
// dependency is healthy, degraded otherwise.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	connections := []ConnectionStatus{
		s.checkDatabase(ctx),
		s.checkLogStore(ctx),
	}

	status := "healthy"
	for _, c := range connections {
		if !c.Healthy {
			status = "degraded"
			break
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthReport{
		Status:      status,
		Connections: connections,
		UptimeSec:   int64(time.Since(s.startedAt).Seconds()),
		MemoryMB:    mem.Alloc / 1024 / 1024,
		Goroutines:  runtime.NumGoroutine(),
		CheckedAt:   time.Now().UTC(),
	}
}

// CheckConnection reports one named store; the second return value is false
// for an unknown name.
func (s *HealthService) CheckConnection(ctx context.Context, name string) (ConnectionStatus, bool) {
	switch name {
	case "database":
		return s.checkDatabase(ctx), true
	case "logs":
		return s.checkLogStore(ctx), true
	}
	return ConnectionStatus{}, false
}

func (s *HealthService) ConfigReport() map[string]interface{} {
	return s.cfg.Sanitized()
}

func (s *HealthService) checkDatabase(ctx context.Context) ConnectionStatus {
	status := ConnectionStatus{Name: "database"}

	start := time.Now()
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	status.ResponseTimeMs = time.Since(start).Milliseconds()

	if err != nil {
		status.Error = fmt.Sprintf("ping failed: %v", err)
		return status
	}
	status.Healthy = true
	return status
}

func (s *HealthService) checkLogStore(ctx context.Context) ConnectionStatus {
	status := ConnectionStatus{Name: "logs"}

	start := time.Now()
	err := s.logs.Ping(ctx)
	status.ResponseTimeMs = time.Since(start).Milliseconds()

	if err != nil {
		status.Error = fmt.Sprintf("ping failed: %v", err)
		return status
	}
	status.Healthy = true
	return status
}
