package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/metrics"

	"github.com/go-co-op/gocron"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrReconcileInProgress = errors.New("reconciliation already in progress")
	ErrRemoteUnavailable   = errors.New("remote report store is unreachable")
)

// =============================================================================
// Constants
// =============================================================================

const (
	// Timeout for the reachability check before draining
	reconcilePingTimeout = 5 * time.Second

	// Upper bound of one scheduled pass
	reconcilePassTimeout = 2 * time.Minute
)

// =============================================================================
// Types
// =============================================================================

// ReconcileResult summarizes one drain pass.
type ReconcileResult struct {
	Delivered int   `json:"delivered"`
	Remaining int64 `json:"remaining"`
}

// ReconcileService delivers locally queued reports to the remote store.
//
// A queued entry is removed only after the remote store confirms the report,
// either by accepting the insert or by already holding the id. Entries are
// delivered oldest first and a pass stops at the first real failure.
type ReconcileService struct {
	log          *logrus.Logger
	remoteRepo   repository.ReportRepository
	fallbackRepo repository.FallbackRepository
	interval     time.Duration

	scheduler *gocron.Scheduler

	running atomic.Bool
	stopped atomic.Bool
}

// =============================================================================
// Constructor
// =============================================================================

// NewReconcileService creates the service. A zero interval disables the schedule;
// RunOnce still works. The schedule runs in loc.
func NewReconcileService(
	log *logrus.Logger,
	remoteRepo repository.ReportRepository,
	fallbackRepo repository.FallbackRepository,
	interval time.Duration,
	loc *time.Location,
) *ReconcileService {
	if loc == nil {
		loc = time.Local
	}
	return &ReconcileService{
		log:          log,
		remoteRepo:   remoteRepo,
		fallbackRepo: fallbackRepo,
		interval:     interval,
		scheduler:    gocron.NewScheduler(loc),
	}
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// Start schedules a pass every interval, the first one immediately.
func (s *ReconcileService) Start() error {
	if s.interval <= 0 {
		s.log.Info("Fallback reconciliation schedule disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcilePassTimeout)
		defer cancel()

		result, err := s.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrReconcileInProgress):
			s.log.Debug("Skipping scheduled reconciliation, a pass is already running")
		case errors.Is(err, ErrRemoteUnavailable):
			s.log.Debugf("Skipping scheduled reconciliation: %+v", err)
		case err != nil:
			s.log.Warnf("Scheduled reconciliation stopped early: %+v", err)
		case result.Delivered > 0:
			s.log.Infof("Delivered %d queued reports, %d remaining", result.Delivered, result.Remaining)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reconciliation: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Infof("Fallback reconciliation scheduled every %v", s.interval)
	return nil
}

// Stop halts the schedule. Safe to call multiple times.
func (s *ReconcileService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.scheduler.Stop()
		s.log.Info("ReconcileService stopped")
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// RunOnce performs one drain pass. Passes never overlap.
func (s *ReconcileService) RunOnce(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	if !s.running.CompareAndSwap(false, true) {
		return result, ErrReconcileInProgress
	}
	defer s.running.Store(false)

	pingCtx, cancel := context.WithTimeout(ctx, reconcilePingTimeout)
	err := s.remoteRepo.Ping(pingCtx)
	cancel()
	if err != nil {
		result.Remaining = s.remaining(ctx)
		return result, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	queued, err := s.fallbackRepo.FindAll(ctx)
	if err != nil {
		return result, fmt.Errorf("read local queue: %w", err)
	}

	var passErr error
	// queue is newest first, deliver from the tail
	for i := len(queued) - 1; i >= 0; i-- {
		report := queued[i]

		if err := s.remoteRepo.Insert(ctx, &report); err != nil {
			committed, checkErr := s.alreadyCommitted(ctx, report.ID, err)
			if !committed {
				if checkErr != nil {
					s.log.Debugf("Failed to confirm report %s remotely: %+v", report.ID, checkErr)
				}
				passErr = fmt.Errorf("deliver report %s: %w", report.ID, err)
				break
			}
			s.log.Debugf("Report %s was already stored remotely", report.ID)
		}

		if _, err := s.fallbackRepo.Remove(ctx, report.ID); err != nil {
			passErr = fmt.Errorf("remove delivered report %s from queue: %w", report.ID, err)
			break
		}

		result.Delivered++
		metrics.ReportsReconciled.Inc()
		s.log.Debugf("Delivered queued report %s", report.ID)
	}

	result.Remaining = s.remaining(ctx)
	return result, passErr
}

// =============================================================================
// Private Helper Methods
// =============================================================================

// alreadyCommitted tells whether a failed insert hides an earlier successful one.
func (s *ReconcileService) alreadyCommitted(ctx context.Context, id string, insertErr error) (bool, error) {
	if isUniqueViolation(insertErr) {
		return true, nil
	}
	return s.remoteRepo.Exists(ctx, id)
}

func (s *ReconcileService) remaining(ctx context.Context) int64 {
	count, err := s.fallbackRepo.Count(ctx)
	if err != nil {
		s.log.Warnf("Failed to count local queue: %+v", err)
		return 0
	}
	metrics.FallbackQueueLength.Set(float64(count))
	return count
}

// isUniqueViolation checks for PostgreSQL error code 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
