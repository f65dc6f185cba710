package domain

import (
	"context"
	"time"
)

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FirstName        *string   `gorm:"size:64" json:"first_name"`
	LastName         *string   `gorm:"size:64" json:"last_name"`
	Email            string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Telephone        string    `gorm:"uniqueIndex;size:32;not null" json:"telephone"`
	AnimalShelter    bool      `gorm:"not null;default:false" json:"animal_shelter"`
	OrganizationName *string   `gorm:"size:128" json:"organization_name"`
	PasswordHash     string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByTelephone(ctx context.Context, tel string) (*User, error)
	Update(ctx context.Context, u *User) error
}
