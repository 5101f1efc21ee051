package repository

import (
	"context"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
)

// FallbackRepository holds reports that could not reach the remote store.
// FindAll returns the most recent report first.
type FallbackRepository interface {
	Enqueue(ctx context.Context, report *entity.Report) error
	FindAll(ctx context.Context) ([]entity.Report, error)
	Remove(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}
