package repo

import (
	"context"

	"gorm.io/gorm"

	"furrylink/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepo) List(ctx context.Context) ([]domain.Review, error) {
	var rs []domain.Review
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rs).Error
	return rs, err
}

func (r *ReviewRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Review, error) {
	var rs []domain.Review
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&rs).Error
	return rs, err
}
