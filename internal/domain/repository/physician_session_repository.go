package repository

import (
	"context"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
)

type PhysicianSessionRepository interface {
	Save(ctx context.Context, clientID string, session *entity.PhysicianSession) error
	FindByClientID(ctx context.Context, clientID string) (*entity.PhysicianSession, error)
}
