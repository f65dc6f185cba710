package service

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"furrylink/internal/core/cache"
	"furrylink/internal/core/storage"
	"furrylink/internal/domain"
	"furrylink/internal/policy"
)

const petListKey = "pets:list"

// Photo 上传的宠物照片
type Photo struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type NewPet struct {
	Type  string
	Breed string
	Age   string
	Price string
	Photo *Photo
}

type PetOptions struct {
	MaxBytes   int64
	AllowedExt []string
	CacheTTL   time.Duration
}

type PetService struct {
	store  domain.Store
	files  storage.Storage
	cache  *cache.Cache
	policy policy.Policy
	opt    PetOptions
	log    *zap.Logger
}

func NewPetService(store domain.Store, files storage.Storage, c *cache.Cache, pol policy.Policy, opt PetOptions, log *zap.Logger) *PetService {
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = storage.DefaultMaxBytes
	}
	if len(opt.AllowedExt) == 0 {
		opt.AllowedExt = storage.DefaultAllowedExt
	}
	if opt.CacheTTL <= 0 {
		opt.CacheTTL = 30 * time.Second
	}
	return &PetService{store: store, files: files, cache: c, policy: pol, opt: opt, log: log}
}

// List 空列表返回 NotFound
func (s *PetService) List(ctx context.Context) ([]PetView, error) {
	views, err := cache.GetOrLoadJSON(s.cache, ctx, petListKey, s.opt.CacheTTL,
		func(ctx context.Context) (*[]PetView, error) {
			pets, err := s.store.Pets().List(ctx)
			if err != nil {
				return nil, err
			}
			v, err := petViews(ctx, s.store, pets)
			return &v, err
		})
	if err != nil {
		return nil, err
	}
	if views == nil || len(*views) == 0 {
		return nil, domain.NotFound("No pets found.")
	}
	return *views, nil
}

// Create 先校验并保存照片，再写库
func (s *PetService) Create(ctx context.Context, who domain.Identity, in NewPet) (*PetView, error) {
	if err := s.policy.CanCreatePet(who); err != nil {
		return nil, err
	}
	if in.Photo == nil {
		return nil, domain.InvalidArgument("No file part")
	}
	if err := storage.Validate(in.Photo.Filename, in.Photo.Size, s.opt.MaxBytes, s.opt.AllowedExt); err != nil {
		return nil, err
	}
	ref, err := s.files.Save(ctx, in.Photo.Filename, in.Photo.Body)
	if err != nil {
		return nil, err
	}

	var out *PetView
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		p := &domain.Pet{
			Type:          strings.TrimSpace(in.Type),
			Breed:         strings.TrimSpace(in.Breed),
			Age:           strings.TrimSpace(in.Age),
			Price:         strings.TrimSpace(in.Price),
			ImageFilename: ref,
			UserID:        who.UserID,
		}
		if err := tx.Pets().Create(ctx, p); err != nil {
			return err
		}
		owner, err := tx.Users().FindByID(ctx, who.UserID)
		if err != nil {
			return err
		}
		out = &PetView{Pet: *p, User: owner}
		return nil
	})
	if err != nil {
		// TODO: Storage 加 Delete 后在这里清理孤儿文件
		s.log.Warn("pet insert failed after upload", zap.String("ref", ref), zap.Error(err))
		return nil, err
	}
	s.cache.Invalidate(ctx, petListKey)
	s.log.Info("pet listed", zap.Uint("pet", out.ID), zap.Uint("owner", who.UserID), zap.String("ref", ref))
	return out, nil
}

// Delete 宠物被领养后下架，连同其全部申请一起删除
func (s *PetService) Delete(ctx context.Context, who domain.Identity, id uint) error {
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		p, err := tx.Pets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanDeletePet(who, p); err != nil {
			return err
		}
		if err := tx.Applications().DeleteByPet(ctx, id); err != nil {
			return err
		}
		return tx.Pets().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, petListKey)
	s.log.Info("pet removed", zap.Uint("pet", id), zap.Uint("by", who.UserID))
	return nil
}

func (s *PetService) OpenImage(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	return s.files.Open(ctx, ref)
}
