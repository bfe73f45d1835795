package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AegisGov/AegisGate/pkg/domain/feedback"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) feedback.Repository {
	return &FeedbackRepository{
		db: db,
	}
}

func (r *FeedbackRepository) Save(ctx context.Context, entity *feedback.Feedback) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *FeedbackRepository) ListByRequest(ctx context.Context, requestID string) ([]feedback.Feedback, error) {
	var entries []feedback.Feedback
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
