package jobs

import (
	"github.com/nusatech-dev/backoffice-api/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	cfg    *config.JobsConfig
	logger *zap.Logger
	cron   *cron.Cron
}

func NewScheduler(cfg *config.JobsConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		logger: logger,
		cron:   cron.New(),
	}
}

// Register adds the lifecycle resync job on the configured schedule.
func (s *Scheduler) Register(resync *ResyncJob) error {
	_, err := s.cron.AddFunc(s.cfg.LifecycleResyncSchedule, resync.Run)
	if err != nil {
		return err
	}

	s.logger.Info("Scheduled lifecycle resync job",
		zap.String("schedule", s.cfg.LifecycleResyncSchedule))
	return nil
}

// Start launches the scheduler in its own goroutine. No-op when jobs are
// disabled.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("Background jobs disabled")
		return
	}
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
