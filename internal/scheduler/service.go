package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/samarthumrao/BrandPulse-AI/internal/config"
	"github.com/sirupsen/logrus"
)

// Runner performs one watchlist audit run
type Runner interface {
	RunWatchlist(ctx context.Context) error
}

// Service handles scheduling of watchlist audits
type Service struct {
	config *config.Config
	runner Runner
	cron   *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, runner Runner) *Service {
	return &Service{
		config: cfg,
		runner: runner,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// CronExpression returns the cron spec for a report schedule
func CronExpression(schedule string) string {
	switch schedule {
	case "daily":
		// Run daily at 9 AM UTC
		return "0 0 9 * * *"
	default:
		// Run weekly on Monday at 9 AM UTC
		return "0 0 9 * * MON"
	}
}

// Start begins the scheduled audits. It is a no-op for an empty watchlist.
func (s *Service) Start() error {
	if len(s.config.Watchlist) == 0 {
		logrus.Info("Watchlist is empty, scheduler not started")
		return nil
	}

	expression := CronExpression(s.config.ReportSchedule)
	_, err := s.cron.AddFunc(expression, func() {
		logrus.Info("Starting scheduled watchlist run")
		if err := s.runner.RunWatchlist(context.Background()); err != nil {
			logrus.Errorf("Scheduled watchlist run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expression, err)
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule for %d brands", s.config.ReportSchedule, len(s.config.Watchlist))
	return nil
}

// Entries reports how many jobs are registered
func (s *Service) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
