package domain

import "context"

// Store 实体存储；所有写操作都应在 Tx 内完成
type Store interface {
	Users() UserRepository
	Pets() PetRepository
	Reviews() ReviewRepository
	Applications() ApplicationRepository

	// Tx 成功提交，fn 返回错误或 panic 时回滚
	Tx(ctx context.Context, fn func(s Store) error) error
}

// Models 需要建表的全部模型
func Models() []any {
	return []any{&User{}, &Pet{}, &Review{}, &AdoptionApplication{}}
}
