package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"furrylink/internal/core/cache"
	"furrylink/internal/domain"
	"furrylink/internal/policy"
)

type UserService struct {
	store  domain.Store
	policy policy.Policy
	cache  *cache.Cache
	log    *zap.Logger
}

func NewUserService(store domain.Store, pol policy.Policy, c *cache.Cache, log *zap.Logger) *UserService {
	return &UserService{store: store, policy: pol, cache: c, log: log}
}

// UserPatch nil 字段保持不变
type UserPatch struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Telephone        *string
	AnimalShelter    *bool
	OrganizationName *string
	Password         *string
}

func (s *UserService) Patch(ctx context.Context, who domain.Identity, id uint, p UserPatch) (*UserDetail, error) {
	var (
		out  *UserDetail
		hash string
	)
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanPatchUser(who, u); err != nil {
			return err
		}
		if p.Password != nil {
			if *p.Password == "" {
				return domain.InvalidArgument("Password cannot be empty.")
			}
			if hash, err = hashPassword(*p.Password); err != nil {
				return err
			}
		}

		if p.Email != nil {
			email := strings.TrimSpace(*p.Email)
			if email == "" {
				return domain.InvalidArgument("Email cannot be empty.")
			}
			if email != u.Email {
				other, err := tx.Users().FindByEmail(ctx, email)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.Conflict("Email already in use.")
				}
				u.Email = email
			}
		}
		if p.Telephone != nil {
			tel := strings.TrimSpace(*p.Telephone)
			if tel == "" {
				return domain.InvalidArgument("Telephone cannot be empty.")
			}
			if tel != u.Telephone {
				other, err := tx.Users().FindByTelephone(ctx, tel)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.Conflict("Telephone already in use.")
				}
				u.Telephone = tel
			}
		}
		if p.FirstName != nil {
			u.FirstName = p.FirstName
		}
		if p.LastName != nil {
			u.LastName = p.LastName
		}
		if p.AnimalShelter != nil {
			u.AnimalShelter = *p.AnimalShelter
		}
		if p.OrganizationName != nil {
			u.OrganizationName = p.OrganizationName
		}
		if hash != "" {
			u.PasswordHash = hash
		}

		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		out, err = userDetail(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 宠物列表里内嵌了发布者信息
	s.cache.Invalidate(ctx, petListKey)
	s.log.Info("user updated", zap.Uint("uid", id), zap.Uint("by", who.UserID), zap.Bool("password", hash != ""))
	return out, nil
}

func (s *UserService) Detail(ctx context.Context, id uint) (*UserDetail, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("User not found.")
	}
	return userDetail(ctx, s.store, u)
}
