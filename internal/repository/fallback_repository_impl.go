package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	domainRepo "github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// fallbackRepository keeps the queue as a Redis list, newest entry at index 0.
type fallbackRepository struct {
	redisClient *redis.Client
	key         string
}

func NewFallbackRepository(redisClient *redis.Client, key string) domainRepo.FallbackRepository {
	return &fallbackRepository{
		redisClient: redisClient,
		key:         key,
	}
}

func (r *fallbackRepository) Enqueue(ctx context.Context, report *entity.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", report.ID, err)
	}
	return r.redisClient.LPush(ctx, r.key, payload).Err()
}

// FindAll skips entries that do not decode; they stay in the list untouched.
func (r *fallbackRepository) FindAll(ctx context.Context) ([]entity.Report, error) {
	raw, err := r.redisClient.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	reports := make([]entity.Report, 0, len(raw))
	for _, entry := range raw {
		var report entity.Report
		if err := json.Unmarshal([]byte(entry), &report); err != nil {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Remove deletes the queued entry for id. Returns false when nothing matched.
func (r *fallbackRepository) Remove(ctx context.Context, id string) (bool, error) {
	raw, err := r.redisClient.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return false, err
	}

	for _, entry := range raw {
		var report entity.Report
		if err := json.Unmarshal([]byte(entry), &report); err != nil {
			continue
		}
		if report.ID != id {
			continue
		}
		removed, err := r.redisClient.LRem(ctx, r.key, 1, entry).Result()
		if err != nil {
			return false, err
		}
		return removed > 0, nil
	}
	return false, nil
}

func (r *fallbackRepository) Count(ctx context.Context) (int64, error) {
	return r.redisClient.LLen(ctx, r.key).Result()
}

func (r *fallbackRepository) Clear(ctx context.Context) error {
	return r.redisClient.Del(ctx, r.key).Err()
}
