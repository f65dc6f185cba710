package domain

import (
	"context"
	"time"
)

// ApplicationStatus 领养申请状态；Approved/Rejected 之间可任意改写，不限制流转方向
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseApplicationStatus 大小写敏感，与存量数据保持一致
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.Valid() {
		return "", InvalidArgument("Invalid status.")
	}
	return st, nil
}

type AdoptionApplication struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Description string            `gorm:"type:text" json:"description"`
	Status      ApplicationStatus `gorm:"size:16;not null;default:Pending" json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	PetID       uint              `gorm:"index;not null" json:"pet_id"`
	UserID      uint              `gorm:"index;not null" json:"user_id"`
}

func (AdoptionApplication) TableName() string { return "adoption_applications" }

type ApplicationRepository interface {
	Create(ctx context.Context, a *AdoptionApplication) error
	FindByID(ctx context.Context, id uint) (*AdoptionApplication, error)
	List(ctx context.Context) ([]AdoptionApplication, error)
	ListByUser(ctx context.Context, userID uint) ([]AdoptionApplication, error)
	UpdateStatus(ctx context.Context, id uint, status ApplicationStatus) error
	DeleteByPet(ctx context.Context, petID uint) error
}
