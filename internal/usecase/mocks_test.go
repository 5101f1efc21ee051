package usecase

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Compile-time checks
var (
	_ service.SyncGateway             = (*MockSyncGateway)(nil)
	_ service.PhysicianSessionService = (*MockSessionService)(nil)
	_ Reconciler                      = (*MockReconciler)(nil)
)

type MockSyncGateway struct {
	SubmitFunc  func(ctx context.Context, report *entity.Report) (service.SubmitOutcome, error)
	ListFunc    func(ctx context.Context) []entity.Report
	RemoveFunc  func(ctx context.Context, id string) bool
	PendingFunc func(ctx context.Context) []entity.Report

	SubmitCallCount int32
	Submitted       []*entity.Report
}

func (m *MockSyncGateway) Submit(ctx context.Context, report *entity.Report) (service.SubmitOutcome, error) {
	atomic.AddInt32(&m.SubmitCallCount, 1)
	m.Submitted = append(m.Submitted, report)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, report)
	}
	return service.OutcomeRemote, nil
}

func (m *MockSyncGateway) List(ctx context.Context) []entity.Report {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []entity.Report{}
}

func (m *MockSyncGateway) Remove(ctx context.Context, id string) bool {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return false
}

func (m *MockSyncGateway) Pending(ctx context.Context) []entity.Report {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx)
	}
	return []entity.Report{}
}

type MockSessionService struct {
	RememberFunc func(ctx context.Context, clientID, name string) error
	RecallFunc   func(ctx context.Context, clientID string) (string, bool)

	RememberCallCount int32
	LastRemembered    string
}

func (m *MockSessionService) Remember(ctx context.Context, clientID, name string) error {
	atomic.AddInt32(&m.RememberCallCount, 1)
	m.LastRemembered = name
	if m.RememberFunc != nil {
		return m.RememberFunc(ctx, clientID, name)
	}
	return nil
}

func (m *MockSessionService) Recall(ctx context.Context, clientID string) (string, bool) {
	if m.RecallFunc != nil {
		return m.RecallFunc(ctx, clientID)
	}
	return "", false
}

type MockReconciler struct {
	RunOnceFunc func(ctx context.Context) (service.ReconcileResult, error)
}

func (m *MockReconciler) RunOnce(ctx context.Context) (service.ReconcileResult, error) {
	if m.RunOnceFunc != nil {
		return m.RunOnceFunc(ctx)
	}
	return service.ReconcileResult{}, nil
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}
