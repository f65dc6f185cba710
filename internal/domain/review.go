package domain

import (
	"context"
	"time"
)

type Review struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Date    time.Time `json:"date"`
	Comment string    `gorm:"type:text" json:"comment"`
	UserID  uint      `gorm:"index;not null" json:"user_id"`
}

func (Review) TableName() string { return "reviews" }

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	List(ctx context.Context) ([]Review, error)
	ListByUser(ctx context.Context, userID uint) ([]Review, error)
}
