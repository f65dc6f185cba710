package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"furrylink/internal/domain"
)

type ApplicationRepo struct{ db *gorm.DB }

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.AdoptionApplication) error {
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id uint) (*domain.AdoptionApplication, error) {
	var a domain.AdoptionApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepo) List(ctx context.Context) ([]domain.AdoptionApplication, error) {
	var as []domain.AdoptionApplication
	err := r.db.WithContext(ctx).Order("id ASC").Find(&as).Error
	return as, err
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uint) ([]domain.AdoptionApplication, error) {
	var as []domain.AdoptionApplication
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&as).Error
	return as, err
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) error {
	// mysql 值未变化时 RowsAffected 为 0，存在性由调用方先行校验
	return r.db.WithContext(ctx).Model(&domain.AdoptionApplication{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ApplicationRepo) DeleteByPet(ctx context.Context, petID uint) error {
	return r.db.WithContext(ctx).Where("pet_id = ?", petID).Delete(&domain.AdoptionApplication{}).Error
}
