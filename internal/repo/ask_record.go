package repo

import (
	"context"
	"time"

	"github.com/KNICEX/ask-ai/internal/entity"
	"gorm.io/gorm"
)

type AskRecordRepo interface {
	Create(ctx context.Context, record entity.AskRecord) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]entity.AskRecord, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}

type askRecordRepo struct {
	db *gorm.DB
}

func NewAskRecordRepo(db *gorm.DB) AskRecordRepo {
	return &askRecordRepo{
		db: db,
	}
}

func (r *askRecordRepo) Create(ctx context.Context, record entity.AskRecord) (int64, error) {
	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return 0, err
	}
	return record.Id, nil
}

// FindRecent returns the newest records first.
func (r *askRecordRepo) FindRecent(ctx context.Context, limit int) ([]entity.AskRecord, error) {
	var records []entity.AskRecord
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *askRecordRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.AskRecord{}).Where("status = ?", status).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *askRecordRepo) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", t).Delete(&entity.AskRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
