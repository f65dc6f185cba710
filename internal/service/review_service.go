package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/policy"
)

type ReviewService struct {
	store  domain.Store
	policy policy.Policy
	log    *zap.Logger
	now    func() time.Time
}

func NewReviewService(store domain.Store, pol policy.Policy, log *zap.Logger) *ReviewService {
	return &ReviewService{store: store, policy: pol, log: log, now: time.Now}
}

func (s *ReviewService) List(ctx context.Context) ([]ReviewView, error) {
	rs, err := s.store.Reviews().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, domain.NotFound("No reviews found.")
	}
	return reviewViews(ctx, s.store, rs)
}

func (s *ReviewService) Create(ctx context.Context, who domain.Identity, comment string) (*ReviewView, error) {
	if err := s.policy.CanPostReview(who); err != nil {
		return nil, err
	}
	var out *ReviewView
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		r := &domain.Review{Date: s.now(), Comment: comment, UserID: who.UserID}
		if err := tx.Reviews().Create(ctx, r); err != nil {
			return err
		}
		author, err := tx.Users().FindByID(ctx, who.UserID)
		if err != nil {
			return err
		}
		out = &ReviewView{Review: *r, User: author}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("review posted", zap.Uint("review", out.ID), zap.Uint("uid", who.UserID))
	return out, nil
}
