package service

import (
	"context"
	"slices"

	"furrylink/internal/domain"
)

// UserDetail 用户及其发布的宠物、评价、申请
type UserDetail struct {
	domain.User
	PetsAdded    []domain.Pet                 `json:"pets_added"`
	Reviews      []domain.Review              `json:"reviews"`
	Applications []domain.AdoptionApplication `json:"applications"`
}

type PetView struct {
	domain.Pet
	User *domain.User `json:"user"`
}

type ReviewView struct {
	domain.Review
	User *domain.User `json:"user"`
}

type ApplicationView struct {
	domain.AdoptionApplication
	Pet  *domain.Pet  `json:"pet"`
	User *domain.User `json:"user"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func uniq(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func usersByID(ctx context.Context, st domain.Store, ids []uint) (map[uint]*domain.User, error) {
	us, err := st.Users().FindByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	m := make(map[uint]*domain.User, len(us))
	for i := range us {
		m[us[i].ID] = &us[i]
	}
	return m, nil
}

func petsByID(ctx context.Context, st domain.Store, ids []uint) (map[uint]*domain.Pet, error) {
	ps, err := st.Pets().FindByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	m := make(map[uint]*domain.Pet, len(ps))
	for i := range ps {
		m[ps[i].ID] = &ps[i]
	}
	return m, nil
}

func userDetail(ctx context.Context, st domain.Store, u *domain.User) (*UserDetail, error) {
	pets, err := st.Pets().ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := st.Reviews().ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	apps, err := st.Applications().ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		User:         *u,
		PetsAdded:    nonNil(pets),
		Reviews:      nonNil(reviews),
		Applications: nonNil(apps),
	}, nil
}

func petViews(ctx context.Context, st domain.Store, pets []domain.Pet) ([]PetView, error) {
	ids := make([]uint, 0, len(pets))
	for _, p := range pets {
		ids = append(ids, p.UserID)
	}
	owners, err := usersByID(ctx, st, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PetView, 0, len(pets))
	for _, p := range pets {
		out = append(out, PetView{Pet: p, User: owners[p.UserID]})
	}
	return out, nil
}

func reviewViews(ctx context.Context, st domain.Store, rs []domain.Review) ([]ReviewView, error) {
	ids := make([]uint, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.UserID)
	}
	authors, err := usersByID(ctx, st, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewView, 0, len(rs))
	for _, r := range rs {
		out = append(out, ReviewView{Review: r, User: authors[r.UserID]})
	}
	return out, nil
}

func applicationViews(ctx context.Context, st domain.Store, apps []domain.AdoptionApplication) ([]ApplicationView, error) {
	petIDs := make([]uint, 0, len(apps))
	userIDs := make([]uint, 0, len(apps))
	for _, a := range apps {
		petIDs = append(petIDs, a.PetID)
		userIDs = append(userIDs, a.UserID)
	}
	pets, err := petsByID(ctx, st, petIDs)
	if err != nil {
		return nil, err
	}
	users, err := usersByID(ctx, st, userIDs)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		out = append(out, ApplicationView{AdoptionApplication: a, Pet: pets[a.PetID], User: users[a.UserID]})
	}
	return out, nil
}
