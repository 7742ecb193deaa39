package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "task-vault.com/task-vault/internal/configs"
	httpapi "task-vault.com/task-vault/internal/http"
	"task-vault.com/task-vault/internal/lock"
	repository "task-vault.com/task-vault/internal/repositories"
	"task-vault.com/task-vault/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task management HTTP API backed by SQLite and Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.NewDatabase(cfg.DatabaseDSN)

		redisClient, err := config.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			log.Printf("audit log store unavailable, serving demo records on reads: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}

		taskRepo := repository.NewTaskRepository(database)
		logRepo := repository.NewRedisLogRepository(redisClient)
		locks := lock.NewKeyedMutex(time.Duration(cfg.LockTTLSeconds) * time.Second)

		taskService := services.NewTaskService(taskRepo, logRepo, locks)
		logService := services.NewLogService(logRepo)
		healthService := services.NewHealthService(database, logRepo, cfg)

		e := echo.New()

		httpapi.Register(
			e,
			httpapi.NewTaskHandler(taskService, cfg.DefaultPageSize, cfg.MaxPageSize),
			httpapi.NewLogHandler(logService, cfg.DefaultPageSize, cfg.MaxPageSize, cfg.LogRetentionDays),
			httpapi.NewHealthHandler(healthService),
			cfg.RateLimit,
			time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
