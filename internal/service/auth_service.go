package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"furrylink/internal/core/session"
	"furrylink/internal/domain"
	"furrylink/pkg/utils"
)

type AuthService struct {
	store    domain.Store
	sessions *session.Manager
	log      *zap.Logger
}

func NewAuthService(store domain.Store, sessions *session.Manager, log *zap.Logger) *AuthService {
	return &AuthService{store: store, sessions: sessions, log: log}
}

type SignupInput struct {
	FirstName        *string
	LastName         *string
	Email            string
	Telephone        string
	AnimalShelter    bool
	OrganizationName *string
	Password         string
}

// Signup 注册成功后直接登录，返回会话 token
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*UserDetail, string, error) {
	email := strings.TrimSpace(in.Email)
	tel := strings.TrimSpace(in.Telephone)
	if email == "" || tel == "" || in.Password == "" {
		return nil, "", domain.InvalidArgument("Email, telephone and password are required.")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	var out *UserDetail
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		if u, err := tx.Users().FindByEmail(ctx, email); err != nil {
			return err
		} else if u != nil {
			return domain.Conflict("User already exists.")
		}
		if u, err := tx.Users().FindByTelephone(ctx, tel); err != nil {
			return err
		} else if u != nil {
			return domain.Conflict("User already exists.")
		}
		u := &domain.User{
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			Email:            email,
			Telephone:        tel,
			AnimalShelter:    in.AnimalShelter,
			OrganizationName: in.OrganizationName,
			PasswordHash:     hash,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		out, err = userDetail(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	tok, err := s.sessions.Create(ctx, out.ID)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user signed up", zap.Uint("uid", out.ID), zap.Bool("shelter", out.AnimalShelter))
	return out, tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*UserDetail, string, error) {
	u, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", domain.NotFound("User does not exist.")
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		s.log.Warn("login failed", zap.Uint("uid", u.ID))
		return nil, "", domain.Unauthorized("Incorrect password.")
	}
	d, err := userDetail(ctx, s.store, u)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return d, tok, nil
}

// Current 会话对应的用户；用户已被删除时同样视为未登录
func (s *AuthService) Current(ctx context.Context, who domain.Identity) (*UserDetail, error) {
	if !who.Authenticated() {
		return nil, domain.Unauthenticated("Please log in.")
	}
	u, err := s.store.Users().FindByID(ctx, who.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Unauthenticated("Please log in.")
	}
	return userDetail(ctx, s.store, u)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// hashPassword 口令超过 bcrypt 上限属于输入错误
func hashPassword(pw string) (string, error) {
	h, err := utils.HashPassword(pw)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &domain.Error{Kind: domain.ErrInvalidArgument, Msg: "Password must be at most 72 bytes.", Err: err}
	}
	return h, err
}
