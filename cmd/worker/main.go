package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/tasks"
)

const (
	pollInterval = 5 * time.Minute
	runLockName  = "billing-worker"
	runLockTTL   = 30 * time.Minute
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// The run lock keeps two worker instances (or an overlapping cron
	// fire) from interleaving billing sweeps. Without Redis the worker
	// still runs, just without that protection.
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Warnf("Redis unavailable, run lock disabled: %v", err)
			cache = nil
		}
	}

	// Initialize task registry
	tasks.DefineTasks()

	log.Info("Worker started. Waiting for next tick...")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("Shutting down worker...")
		cancel()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Run once at startup, then on every tick
	runCycle(ctx, db, cache)

	for {
		select {
		case <-ticker.C:
			runCycle(ctx, db, cache)
		case <-ctx.Done():
			return
		}
	}
}

func runCycle(ctx context.Context, db *gorm.DB, cache *services.RedisCache) {
	if cache != nil {
		acquired, err := cache.AcquireLock(ctx, runLockName, runLockTTL)
		if err != nil {
			log.WithError(err).Warn("run lock check failed, skipping cycle")
			return
		}
		if !acquired {
			log.Info("Another worker holds the run lock, skipping cycle")
			return
		}
		defer func() {
			if err := cache.ReleaseLock(ctx, runLockName); err != nil {
				log.WithError(err).Warn("failed to release run lock")
			}
		}()
	}

	processScheduledTasks(ctx, db)
}

func processScheduledTasks(ctx context.Context, db *gorm.DB) {
	var pendingTasks []models.ScheduledTask
	now := time.Now()
	if err := db.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).
		Order("due asc").
		Find(&pendingTasks).Error; err != nil {
		log.WithError(err).Error("failed to fetch pending tasks")
		return
	}

	if len(pendingTasks) == 0 {
		log.Debug("No pending tasks found")
		return
	}

	log.Infof("Found %d pending tasks", len(pendingTasks))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		executeTask(ctx, db, task)
	}
}

func executeTask(ctx context.Context, db *gorm.DB, task models.ScheduledTask) {
	logger := log.WithFields(log.Fields{"task": task.TaskName, "task_id": task.ID})

	handler, found := tasks.GetHandler(task.TaskName)
	if !found {
		logger.Error("task handler not found, marking as failure")
		now := time.Now()
		db.Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		db.Create(&models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          "handler_not_found",
			AttemptNumber:   1,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		})
		return
	}

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	var result map[string]interface{}
	var err error
	var startTime time.Time
	attempt := 1

	for ; attempt <= maxAttempt; attempt++ {
		logger.WithField("attempt", attempt).Info("Processing task")

		startTime = time.Now()
		result, err = handler(ctx, db, task)
		runtimeMs := int(time.Since(startTime).Milliseconds())

		status := "success"
		resultData := result
		if err != nil {
			status = "failure"
			resultData = map[string]interface{}{"error": err.Error()}
			logger.WithError(err).Warnf("task attempt %d failed", attempt)
		}

		db.Create(&models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           startTime,
			Runtime:         runtimeMs,
			Status:          status,
			AttemptNumber:   attempt,
			Arguments:       task.Arguments,
			Result:          resultData,
		})

		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return
		}
	}

	// Update ScheduledTask
	taskUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if err != nil {
		taskUpdates["status"] = models.ScheduledTaskStatusFailure
	} else {
		switch task.TaskType {
		case models.ScheduledTaskTypeOneTime:
			taskUpdates["status"] = models.ScheduledTaskStatusDone
		case models.ScheduledTaskTypeRecurring:
			nextDue := task.NextDue()
			// The next due must be in the future, otherwise the task
			// would fire again on the very next cycle.
			if nextDue.After(task.Due) {
				taskUpdates["status"] = models.ScheduledTaskStatusActive
				taskUpdates["due"] = nextDue
			} else {
				taskUpdates["status"] = models.ScheduledTaskStatusDone
			}
		}
		logger.Info("Task completed successfully")
	}

	db.Model(&task).Updates(taskUpdates)
}
