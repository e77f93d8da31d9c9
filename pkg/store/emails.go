package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/riverai/models"
)

type EmailRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEmailRepository(db *gorm.DB, logger *zap.Logger) *EmailRepository {
	return &EmailRepository{db: db, logger: logger}
}

func (r *EmailRepository) Create(ctx context.Context, e *models.SentEmail) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("record sent email: %w", err)
	}
	return nil
}

// List returns sent emails newest first. limit <= 0 means 100.
func (r *EmailRepository) List(ctx context.Context, limit int) ([]models.SentEmail, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []models.SentEmail
	if err := r.db.WithContext(ctx).Order("sent_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sent emails: %w", err)
	}
	return out, nil
}
