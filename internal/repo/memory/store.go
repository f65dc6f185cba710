// Package memory 进程内实体存储，用于本地开发和测试。
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"furrylink/internal/domain"
)

type tables struct {
	users   map[uint]domain.User
	pets    map[uint]domain.Pet
	reviews map[uint]domain.Review
	apps    map[uint]domain.AdoptionApplication

	userSeq, petSeq, reviewSeq, appSeq uint
}

func (t *tables) clone() *tables {
	c := *t
	c.users = maps.Clone(t.users)
	c.pets = maps.Clone(t.pets)
	c.reviews = maps.Clone(t.reviews)
	c.apps = maps.Clone(t.apps)
	return &c
}

// Store 事务串行执行；失败时整体恢复到事务开始前的快照
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	t    *tables
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		t: &tables{
			users:   map[uint]domain.User{},
			pets:    map[uint]domain.Pet{},
			reviews: map[uint]domain.Review{},
			apps:    map[uint]domain.AdoptionApplication{},
		},
		now: time.Now,
	}
}

func (s *Store) Users() domain.UserRepository               { return userRepo{s} }
func (s *Store) Pets() domain.PetRepository                 { return petRepo{s} }
func (s *Store) Reviews() domain.ReviewRepository           { return reviewRepo{s} }
func (s *Store) Applications() domain.ApplicationRepository { return appRepo{s} }

func (s *Store) Tx(ctx context.Context, fn func(domain.Store) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.t.clone()
	s.mu.RUnlock()

	defer func() {
		if r := recover(); r != nil {
			s.restore(snapshot)
			panic(r)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()
	if err = ctx.Err(); err != nil {
		return err
	}
	return fn(txStore{s})
}

func (s *Store) restore(t *tables) {
	s.mu.Lock()
	s.t = t
	s.mu.Unlock()
}

// txStore 事务内的嵌套 Tx 直接复用外层事务
type txStore struct{ *Store }

func (t txStore) Tx(ctx context.Context, fn func(domain.Store) error) error { return fn(t) }

func sortedValues[T any](m map[uint]T, keep func(T) bool) []T {
	ids := make([]uint, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func pick[T any](m map[uint]T, ids []uint) []T {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if v, ok := m[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ---------- users ----------

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkUnique(u); err != nil {
		return err
	}
	r.s.t.userSeq++
	u.ID = r.s.t.userSeq
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.t.users[u.ID] = *u
	return nil
}

func (s *Store) checkUnique(u *domain.User) error {
	for id, other := range s.t.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email || other.Telephone == u.Telephone {
			return &domain.Error{
				Kind: domain.ErrConflict,
				Msg:  "User already exists.",
				Err:  fmt.Errorf("duplicate key on users (id=%d)", id),
			}
		}
	}
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.t.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return pick(r.s.t.users, ids), nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.Email == email })
}

func (r userRepo) FindByTelephone(_ context.Context, tel string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.Telephone == tel })
}

func (r userRepo) findBy(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if us := sortedValues(r.s.t.users, match); len(us) > 0 {
		return &us[0], nil
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.users[u.ID]; !ok {
		return domain.NotFound("User not found.")
	}
	if err := r.s.checkUnique(u); err != nil {
		return err
	}
	u.UpdatedAt = r.s.now()
	r.s.t.users[u.ID] = *u
	return nil
}

// ---------- pets ----------

type petRepo struct{ s *Store }

func (r petRepo) Create(_ context.Context, p *domain.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.petSeq++
	p.ID = r.s.t.petSeq
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	r.s.t.pets[p.ID] = *p
	return nil
}

func (r petRepo) FindByID(_ context.Context, id uint) (*domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.t.pets[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r petRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return pick(r.s.t.pets, ids), nil
}

func (r petRepo) List(_ context.Context) ([]domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.t.pets, nil), nil
}

func (r petRepo) ListByOwner(_ context.Context, userID uint) ([]domain.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.t.pets, func(p domain.Pet) bool { return p.UserID == userID }), nil
}

func (r petRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.pets[id]; !ok {
		return domain.NotFound("No pet found.")
	}
	delete(r.s.t.pets, id)
	return nil
}

// ---------- reviews ----------

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, rv *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.reviewSeq++
	rv.ID = r.s.t.reviewSeq
	if rv.Date.IsZero() {
		rv.Date = r.s.now()
	}
	r.s.t.reviews[rv.ID] = *rv
	return nil
}

func (r reviewRepo) List(_ context.Context) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.t.reviews, nil), nil
}

func (r reviewRepo) ListByUser(_ context.Context, userID uint) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.t.reviews, func(rv domain.Review) bool { return rv.UserID == userID }), nil
}

// ---------- applications ----------

type appRepo struct{ s *Store }

func (r appRepo) Create(_ context.Context, a *domain.AdoptionApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.appSeq++
	a.ID = r.s.t.appSeq
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.s.now()
	}
	r.s.t.apps[a.ID] = *a
	return nil
}

func (r appRepo) FindByID(_ context.Context, id uint) (*domain.AdoptionApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if a, ok := r.s.t.apps[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r appRepo) List(_ context.Context) ([]domain.AdoptionApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.t.apps, nil), nil
}

func (r appRepo) ListByUser(_ context.Context, userID uint) ([]domain.AdoptionApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.t.apps, func(a domain.AdoptionApplication) bool { return a.UserID == userID }), nil
}

func (r appRepo) UpdateStatus(_ context.Context, id uint, status domain.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.t.apps[id]
	if !ok {
		return domain.NotFound("Application not found.")
	}
	a.Status = status
	r.s.t.apps[id] = a
	return nil
}

func (r appRepo) DeleteByPet(_ context.Context, petID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.t.apps {
		if a.PetID == petID {
			delete(r.s.t.apps, id)
		}
	}
	return nil
}
