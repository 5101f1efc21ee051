package repository

import (
	"context"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	domainRepo "github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"

	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Insert(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindAll(ctx context.Context) ([]entity.Report, error) {
	var reports []entity.Report
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Delete returns the number of rows removed, zero when the id is unknown
func (r *reportRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Report{})
	return result.RowsAffected, result.Error
}

func (r *reportRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Report{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reportRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
