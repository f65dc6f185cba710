package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"furrylink/internal/domain"
)

type PetRepo struct{ db *gorm.DB }

func (r *PetRepo) Create(ctx context.Context, p *domain.Pet) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PetRepo) FindByID(ctx context.Context, id uint) (*domain.Pet, error) {
	var p domain.Pet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PetRepo) FindByIDs(ctx context.Context, ids []uint) ([]domain.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ps []domain.Pet
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error
	return ps, err
}

func (r *PetRepo) List(ctx context.Context) ([]domain.Pet, error) {
	var ps []domain.Pet
	err := r.db.WithContext(ctx).Order("id ASC").Find(&ps).Error
	return ps, err
}

func (r *PetRepo) ListByOwner(ctx context.Context, userID uint) ([]domain.Pet, error) {
	var ps []domain.Pet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&ps).Error
	return ps, err
}

func (r *PetRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Pet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("No pet found.")
	}
	return nil
}
