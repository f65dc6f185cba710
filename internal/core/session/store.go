package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 服务端会话表：sid → uid
type Store interface {
	Save(ctx context.Context, sid string, uid uint, ttl time.Duration) error
	Get(ctx context.Context, sid string) (uid uint, ok bool, err error)
	// Delete 返回会话删除前是否存在
	Delete(ctx context.Context, sid string) (bool, error)
}

const keyPrefix = "session:"

type RedisStore struct{ RDB *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{RDB: rdb} }

func (s *RedisStore) Save(ctx context.Context, sid string, uid uint, ttl time.Duration) error {
	return s.RDB.Set(ctx, keyPrefix+sid, strconv.FormatUint(uint64(uid), 10), ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid string) (uint, bool, error) {
	v, err := s.RDB.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	uid, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return uint(uid), true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) (bool, error) {
	n, err := s.RDB.Del(ctx, keyPrefix+sid).Result()
	return n > 0, err
}

type entry struct {
	uid uint
	exp time.Time
}

// MemoryStore 单进程使用；过期条目在读取时清理
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[string]entry{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sid string, uid uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sid] = entry{uid: uid, exp: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[sid]
	if !ok {
		return 0, false, nil
	}
	if !s.now().Before(e.exp) {
		delete(s.m, sid)
		return 0, false, nil
	}
	return e.uid, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[sid]
	delete(s.m, sid)
	return ok && s.now().Before(e.exp), nil
}
