package domain

import (
	"context"
	"time"
)

// Pet 待领养宠物；被领养后直接删除
type Pet struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Type          string    `gorm:"size:64" json:"type"`
	Breed         string    `gorm:"size:64" json:"breed"`
	Age           string    `gorm:"size:32" json:"age"`
	Price         string    `gorm:"size:32" json:"price"`
	ImageFilename string    `gorm:"size:255" json:"image_filename"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt     time.Time `json:"-"`
}

func (Pet) TableName() string { return "pets" }

type PetRepository interface {
	Create(ctx context.Context, p *Pet) error
	FindByID(ctx context.Context, id uint) (*Pet, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Pet, error)
	List(ctx context.Context) ([]Pet, error)
	ListByOwner(ctx context.Context, userID uint) ([]Pet, error)
	Delete(ctx context.Context, id uint) error
}
