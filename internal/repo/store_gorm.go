package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"furrylink/internal/domain"
)

// Store gorm 实现的实体存储；Tx 内部返回绑定到同一事务的 Store
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository               { return &UserRepo{db: s.db} }
func (s *Store) Pets() domain.PetRepository                 { return &PetRepo{db: s.db} }
func (s *Store) Reviews() domain.ReviewRepository           { return &ReviewRepo{db: s.db} }
func (s *Store) Applications() domain.ApplicationRepository { return &ApplicationRepo{db: s.db} }

func (s *Store) Tx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Migrate 按模型建表
func (s *Store) Migrate() error { return s.db.AutoMigrate(domain.Models()...) }

// translate 唯一约束冲突 → Conflict；需要 gorm.Config.TranslateError
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.Error{Kind: domain.ErrConflict, Msg: "User already exists.", Err: err}
	}
	return err
}
