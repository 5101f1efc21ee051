package repository

import (
	"context"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
)

// ReportRepository is the shared remote store every device writes to.
type ReportRepository interface {
	Insert(ctx context.Context, report *entity.Report) error
	FindAll(ctx context.Context) ([]entity.Report, error)
	Delete(ctx context.Context, id string) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}
