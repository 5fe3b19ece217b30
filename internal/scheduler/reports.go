package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taskdesk/taskdesk/internal/audit"
	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/database/tasks"
)

// ReportScheduler runs periodic maintenance jobs: it logs how many tasks
// are past their target date and prunes old audit events past the
// configured retention window.
type ReportScheduler struct {
	tasks        *tasks.Repository
	auditService *audit.Service
	config       config.Reports
	retention    time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewReportScheduler creates a new scheduler instance
func NewReportScheduler(taskRepo *tasks.Repository, auditService *audit.Service, cfg config.Reports, retentionDays int) *ReportScheduler {
	return &ReportScheduler{
		tasks:        taskRepo,
		auditService: auditService,
		config:       cfg,
		retention:    time.Duration(retentionDays) * 24 * time.Hour,
		cron:         cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if reports are enabled
func (s *ReportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Report scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runReport()
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Report scheduler: started with schedule '%s'", s.config.Schedule)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *ReportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Report scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *ReportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next report will run
func (s *ReportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow triggers an immediate report run
func (s *ReportScheduler) RunNow() {
	go s.runReport()
}

// runReport performs the actual report pass
func (s *ReportScheduler) runReport() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("Report run: skipped (previous run still in progress)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	now := time.Now()

	overdue, err := s.tasks.CountOverdue(now)
	if err != nil {
		log.Printf("Report run: failed to count overdue tasks: %v", err)
	} else if overdue > 0 {
		log.Printf("Report run: %d task(s) past their target date", overdue)
	} else {
		log.Printf("Report run: no overdue tasks")
	}

	if s.auditService != nil && s.retention > 0 {
		pruned, err := s.auditService.DeleteOldEvents(s.retention)
		if err != nil {
			log.Printf("Report run: failed to prune audit events: %v", err)
		} else if pruned > 0 {
			log.Printf("Report run: pruned %d audit event(s) older than %s", pruned, s.retention)
		}
	}
}
