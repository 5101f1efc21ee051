package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/metrics"

	"github.com/sirupsen/logrus"
)

// ErrReportNotPersisted is returned when neither the remote store nor the
// local fallback queue accepted a report.
var ErrReportNotPersisted = errors.New("report could not be persisted")

const (
	remoteInsertTimeout = 10 * time.Second
	localEnqueueTimeout = 5 * time.Second
)

type SubmitOutcome string

const (
	OutcomeRemote        SubmitOutcome = "remote"
	OutcomeLocalFallback SubmitOutcome = "local_fallback"
)

// SyncGateway is the single entry point for persisting and reading reports.
// A valid report always lands somewhere: remote first, local queue otherwise.
type SyncGateway interface {
	Submit(ctx context.Context, report *entity.Report) (SubmitOutcome, error)
	List(ctx context.Context) []entity.Report
	Remove(ctx context.Context, id string) bool
	Pending(ctx context.Context) []entity.Report
}

type syncGateway struct {
	log            *logrus.Logger
	remoteRepo     repository.ReportRepository
	fallbackRepo   repository.FallbackRepository
	isKnownService func(string) bool
}

func NewSyncGateway(
	log *logrus.Logger,
	remoteRepo repository.ReportRepository,
	fallbackRepo repository.FallbackRepository,
	isKnownService func(string) bool,
) SyncGateway {
	return &syncGateway{
		log:            log,
		remoteRepo:     remoteRepo,
		fallbackRepo:   fallbackRepo,
		isKnownService: isKnownService,
	}
}

// Submit runs to completion once started: the caller's cancellation is not
// propagated to the store writes, each of which gets its own timeout.
func (s *syncGateway) Submit(ctx context.Context, report *entity.Report) (SubmitOutcome, error) {
	if err := report.Validate(s.isKnownService); err != nil {
		return "", err
	}

	ctx = context.WithoutCancel(ctx)

	remoteCtx, cancelRemote := context.WithTimeout(ctx, remoteInsertTimeout)
	remoteErr := s.remoteRepo.Insert(remoteCtx, report)
	cancelRemote()
	if remoteErr == nil {
		metrics.ReportSubmissions.WithLabelValues(string(OutcomeRemote)).Inc()
		return OutcomeRemote, nil
	}
	s.log.Warnf("Failed to insert report %s remotely, queueing locally: %+v", report.ID, remoteErr)

	localCtx, cancelLocal := context.WithTimeout(ctx, localEnqueueTimeout)
	defer cancelLocal()

	if err := s.fallbackRepo.Enqueue(localCtx, report); err != nil {
		s.log.Errorf("Failed to queue report %s locally: %+v", report.ID, err)
		metrics.ReportSubmissions.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("%w: remote: %v; local: %v", ErrReportNotPersisted, remoteErr, err)
	}

	metrics.ReportSubmissions.WithLabelValues(string(OutcomeLocalFallback)).Inc()
	s.refreshQueueGauge(localCtx)
	return OutcomeLocalFallback, nil
}

// List returns remote reports newest first, or an empty slice when the remote store fails.
func (s *syncGateway) List(ctx context.Context) []entity.Report {
	reports, err := s.remoteRepo.FindAll(ctx)
	if err != nil {
		s.log.Warnf("Failed to list reports: %+v", err)
		return []entity.Report{}
	}
	if reports == nil {
		return []entity.Report{}
	}
	return reports
}

// Remove deletes a remote report. It never touches the local queue.
func (s *syncGateway) Remove(ctx context.Context, id string) bool {
	affected, err := s.remoteRepo.Delete(ctx, id)
	if err != nil {
		s.log.Warnf("Failed to delete report %s: %+v", id, err)
		return false
	}
	return affected > 0
}

func (s *syncGateway) Pending(ctx context.Context) []entity.Report {
	reports, err := s.fallbackRepo.FindAll(ctx)
	if err != nil {
		s.log.Warnf("Failed to read local queue: %+v", err)
		return []entity.Report{}
	}
	return reports
}

func (s *syncGateway) refreshQueueGauge(ctx context.Context) {
	count, err := s.fallbackRepo.Count(ctx)
	if err != nil {
		s.log.Debugf("Failed to count local queue: %+v", err)
		return
	}
	metrics.FallbackQueueLength.Set(float64(count))
}
