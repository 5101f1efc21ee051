package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	domainRepo "github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

type physicianSessionRepository struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewPhysicianSessionRepository(redisClient *redis.Client, keyPrefix string) domainRepo.PhysicianSessionRepository {
	return &physicianSessionRepository{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (r *physicianSessionRepository) key(clientID string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, clientID)
}

// Save overwrites the device entry. Entries carry no TTL.
func (r *physicianSessionRepository) Save(ctx context.Context, clientID string, session *entity.PhysicianSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.redisClient.Set(ctx, r.key(clientID), payload, 0).Err()
}

func (r *physicianSessionRepository) FindByClientID(ctx context.Context, clientID string) (*entity.PhysicianSession, error) {
	raw, err := r.redisClient.Get(ctx, r.key(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.PhysicianSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode physician session: %w", err)
	}
	return &session, nil
}
