package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/lingvobot/internal/bot/tasks"
	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/logger"
)

// Scheduler manages scheduled tasks using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool

	// base is cancelled on Stop so in-flight broadcasts wind down.
	base   context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler whose cron expressions are evaluated in loc.
func NewScheduler(baseLogger *slog.Logger, cfg *config.SchedulerConfig, loc *time.Location, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.SchedulerConfig{}
	}
	if loc == nil {
		loc = time.Local
	}
	log := baseLogger.With("component", "scheduler")

	s, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithLogger(logger.NewSchedulerLogger(log)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// jobDefinition picks the trigger for a task: a fixed interval when set,
// otherwise the cron schedule (seconds field included).
func jobDefinition(tc config.TaskConfig) (gocron.JobDefinition, string) {
	if tc.Interval > 0 {
		return gocron.DurationJob(tc.Interval), "every " + tc.Interval.String()
	}
	return gocron.CronJob(tc.Schedule, true), tc.Schedule
}

// Start schedules every enabled task and starts ticking. Tasks receive a
// context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	s.base, s.cancel = context.WithCancel(ctx)

	scheduledCount := 0
	if len(s.cfg.Tasks) == 0 {
		s.logger.Warn("No scheduler tasks configured.")
	}
	for taskName, taskConfig := range s.cfg.Tasks {
		if !taskConfig.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", taskName)
			continue
		}

		taskFunc, exists := s.taskMap[taskName]
		if !exists {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", taskName)
			continue
		}

		if taskConfig.Schedule == "" && taskConfig.Interval <= 0 {
			s.logger.Warn("Scheduled task enabled but has no trigger, skipping", "task_name", taskName)
			continue
		}

		definition, trigger := jobDefinition(taskConfig)
		name := taskName
		_, err := s.scheduler.NewJob(
			definition,
			gocron.NewTask(func() { s.runTask(name, taskFunc) }),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", taskName, "trigger", trigger, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", taskName, "trigger", trigger)
		scheduledCount++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler initialized and started", "tasks_scheduled", scheduledCount)

	return nil
}

func (s *Scheduler) runTask(name string, taskFunc tasks.ScheduledTaskFunc) {
	s.logger.Info("Running scheduled task", "task_name", name)
	startTime := time.Now()
	if err := taskFunc(s.base); err != nil {
		s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
	}
	s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	s.cancel()
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
