package scheduler

import (
	"context"
	"time"

	"github.com/ronnysenna/envio-massa-sub000/internal/logger"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic maintenance jobs
type Scheduler struct {
	cron     *cron.Cron
	sessions *repository.SessionRepository
	schedule string
}

// NewScheduler creates a scheduler that purges expired sessions on the
// given cron schedule.
func NewScheduler(sessions *repository.SessionRepository, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.cleanupSessions)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("schedule", s.schedule).Msg("scheduler started")
	return nil
}

// Stop stops the cron loop, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) cleanupSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to purge expired sessions")
		return
	}
	if removed > 0 {
		logger.Info().Int64("removed", removed).Msg("purged expired sessions")
	}
}
