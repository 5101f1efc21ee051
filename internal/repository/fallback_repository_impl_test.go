package repository

import (
	"context"
	"testing"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testReport(id string, ts int64) *entity.Report {
	return &entity.Report{
		ID:            id,
		PhysicianName: "Dra. Lopez",
		Service:       "Pediatría",
		Date:          "5/3/2024",
		Timestamp:     ts,
		Items: entity.ItemList{{
			ID:          "M001",
			Code:        "M001",
			Description: "PARACETAMOL",
			Category:    entity.CategoryMedicamento,
			Origin:      entity.OriginCatalog,
		}},
	}
}

func TestFallbackRepository_EnqueuePrepends(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewFallbackRepository(client, "backup_reports")
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, testReport("first", 1)))
	require.NoError(t, repo.Enqueue(ctx, testReport("second", 2)))

	reports, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "second", reports[0].ID)
	assert.Equal(t, "first", reports[1].ID)
	assert.Equal(t, "PARACETAMOL", reports[0].Items[0].Description)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFallbackRepository_Remove(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewFallbackRepository(client, "backup_reports")
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, testReport("a", 1)))
	require.NoError(t, repo.Enqueue(ctx, testReport("b", 2)))

	removed, err := repo.Remove(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	reports, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "b", reports[0].ID)
}

func TestFallbackRepository_SkipsUndecodableEntries(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewFallbackRepository(client, "backup_reports")
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, testReport("a", 1)))
	_, err := mr.Lpush("backup_reports", "not json")
	require.NoError(t, err)

	reports, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "a", reports[0].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "undecodable entries are kept")
}

func TestFallbackRepository_Clear(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewFallbackRepository(client, "backup_reports")
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, testReport("a", 1)))
	require.NoError(t, repo.Clear(ctx))

	reports, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestFallbackRepository_SurvivesReconnect(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, NewFallbackRepository(client, "backup_reports").Enqueue(ctx, testReport("a", time.Now().UnixMilli())))

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	reports, err := NewFallbackRepository(other, "backup_reports").FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "a", reports[0].ID)
}
