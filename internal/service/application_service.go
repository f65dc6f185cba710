package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/policy"
)

type ApplicationService struct {
	store  domain.Store
	policy policy.Policy
	log    *zap.Logger
	now    func() time.Time
}

func NewApplicationService(store domain.Store, pol policy.Policy, log *zap.Logger) *ApplicationService {
	return &ApplicationService{store: store, policy: pol, log: log, now: time.Now}
}

// List 登录用户可查看全部申请
func (s *ApplicationService) List(ctx context.Context, who domain.Identity) ([]ApplicationView, error) {
	if err := s.policy.CanListApplications(who); err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, domain.NotFound("No applications found.")
	}
	return applicationViews(ctx, s.store, apps)
}

func (s *ApplicationService) Create(ctx context.Context, who domain.Identity, petID uint, description string) (*ApplicationView, error) {
	if err := s.policy.CanApply(who); err != nil {
		return nil, err
	}
	var out *ApplicationView
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		pet, err := tx.Pets().FindByID(ctx, petID)
		if err != nil {
			return err
		}
		if pet == nil {
			return domain.NotFound("No pet found.")
		}
		a := &domain.AdoptionApplication{
			Description: description,
			Status:      domain.StatusPending,
			CreatedAt:   s.now(),
			PetID:       petID,
			UserID:      who.UserID,
		}
		if err := tx.Applications().Create(ctx, a); err != nil {
			return err
		}
		applicant, err := tx.Users().FindByID(ctx, who.UserID)
		if err != nil {
			return err
		}
		out = &ApplicationView{AdoptionApplication: *a, Pet: pet, User: applicant}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("application submitted", zap.Uint("app", out.ID), zap.Uint("pet", petID), zap.Uint("uid", who.UserID))
	return out, nil
}

// SetStatus 校验顺序：申请不存在 → 非宠物发布者 → 状态非法；状态之间可任意改写
func (s *ApplicationService) SetStatus(ctx context.Context, who domain.Identity, id uint, status string) (*ApplicationView, error) {
	var out *ApplicationView
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		app, err := tx.Applications().FindByID(ctx, id)
		if err != nil {
			return err
		}
		var pet *domain.Pet
		if app != nil {
			if pet, err = tx.Pets().FindByID(ctx, app.PetID); err != nil {
				return err
			}
		}
		if err := s.policy.CanSetApplicationStatus(who, app, pet); err != nil {
			return err
		}
		st, err := domain.ParseApplicationStatus(status)
		if err != nil {
			return err
		}
		if err := tx.Applications().UpdateStatus(ctx, id, st); err != nil {
			return err
		}
		app.Status = st
		applicant, err := tx.Users().FindByID(ctx, app.UserID)
		if err != nil {
			return err
		}
		out = &ApplicationView{AdoptionApplication: *app, Pet: pet, User: applicant}
		return nil
	})
	if err != nil {
		return nil, err
	}
	statusUpdates.WithLabelValues(string(out.Status)).Inc()
	s.log.Info("application status updated",
		zap.Uint("app", id), zap.String("status", string(out.Status)), zap.Uint("by", who.UserID))
	return out, nil
}
