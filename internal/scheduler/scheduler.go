package scheduler

import (
	"context"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/services"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

// Scheduler runs the periodic jobs: wager feed polling and collection backups
type Scheduler struct {
	cron         *cron.Cron
	wagerService *services.WagerService
	adminService *services.AdminService
}

// New creates a Scheduler with no jobs registered yet
func New(wagerService *services.WagerService, adminService *services.AdminService) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		wagerService: wagerService,
		adminService: adminService,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start(feedSchedule, backupSchedule string) error {
	if _, err := s.cron.AddFunc(feedSchedule, s.refreshFeed); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(backupSchedule, s.runBackup); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Scheduler started", "feedSchedule", feedSchedule, "backupSchedule", backupSchedule)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) refreshFeed() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	imported, err := s.wagerService.RefreshFromFeed(ctx)
	if err != nil {
		slog.Error("Scheduled feed refresh failed", "error", err)
		return
	}
	slog.Info("Scheduled feed refresh completed", "imported", imported)
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.adminService.Backup(ctx)
	if err != nil {
		slog.Error("Scheduled backup failed", "error", err)
		return
	}
	slog.Info("Scheduled backup completed", "path", result.Path)
}
