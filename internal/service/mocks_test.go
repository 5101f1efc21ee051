package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"
	repoImpl "github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var errRemoteDown = errors.New("dial tcp: connection refused")

// Compile-time check
var _ repository.ReportRepository = (*MockReportRepository)(nil)

// MockReportRepository keeps reports in memory. Any *Func field overrides
// the in-memory behavior of its method.
type MockReportRepository struct {
	InsertFunc  func(ctx context.Context, report *entity.Report) error
	FindAllFunc func(ctx context.Context) ([]entity.Report, error)
	DeleteFunc  func(ctx context.Context, id string) (int64, error)
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
	PingFunc    func(ctx context.Context) error

	InsertCallCount int32
	DeleteCallCount int32

	mu      sync.Mutex
	reports map[string]entity.Report
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{reports: make(map[string]entity.Report)}
}

func (m *MockReportRepository) Insert(ctx context.Context, report *entity.Report) error {
	atomic.AddInt32(&m.InsertCallCount, 1)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, report)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[report.ID]; ok {
		return errors.New("duplicate key value violates unique constraint \"reports_pkey\"")
	}
	m.reports[report.ID] = *report
	return nil
}

func (m *MockReportRepository) FindAll(ctx context.Context) ([]entity.Report, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (m *MockReportRepository) Delete(ctx context.Context, id string) (int64, error) {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return 0, nil
	}
	delete(m.reports, id)
	return 1, nil
}

func (m *MockReportRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reports[id]
	return ok, nil
}

func (m *MockReportRepository) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockReportRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// Seed stores reports without counting calls.
func (m *MockReportRepository) Seed(reports ...entity.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range reports {
		m.reports[r.ID] = r
	}
}

// MockFallbackRepository fails every call with Err.
type MockFallbackRepository struct {
	Err error
}

func (m *MockFallbackRepository) Enqueue(ctx context.Context, report *entity.Report) error {
	return m.Err
}

func (m *MockFallbackRepository) FindAll(ctx context.Context) ([]entity.Report, error) {
	return nil, m.Err
}

func (m *MockFallbackRepository) Remove(ctx context.Context, id string) (bool, error) {
	return false, m.Err
}

func (m *MockFallbackRepository) Count(ctx context.Context) (int64, error) {
	return 0, m.Err
}

func (m *MockFallbackRepository) Clear(ctx context.Context) error {
	return m.Err
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRedisFallback(t *testing.T) (*miniredis.Miniredis, repository.FallbackRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, repoImpl.NewFallbackRepository(client, "backup_reports")
}

func knownService(name string) bool {
	switch name {
	case "Pediatría", "Urgencias", "Medicina Interna":
		return true
	}
	return false
}
