// Package session 基于服务端存储的登录会话。
//
// cookie 中保存签名后的 token，token 内的 sid 必须在 Store 中存在才算有效；
// 登出即删除 Store 中的记录，已签发的 token 随之失效。
package session

import (
	"context"

	"go.uber.org/zap"

	"furrylink/internal/core/auth"
	"furrylink/internal/domain"
	"furrylink/pkg/utils"
)

type Manager struct {
	store  Store
	signer *auth.JWTer
	log    *zap.Logger
}

func NewManager(store Store, signer *auth.JWTer, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, signer: signer, log: log}
}

// Create 建立会话并返回写入 cookie 的 token
func (m *Manager) Create(ctx context.Context, uid uint) (string, error) {
	sid := utils.NewID()
	if err := m.store.Save(ctx, sid, uid, m.signer.TTL); err != nil {
		return "", err
	}
	tok, err := m.signer.Issue(sid, uid)
	if err != nil {
		_, _ = m.store.Delete(ctx, sid)
		return "", err
	}
	return tok, nil
}

// Current 解析 token；任何失败都视为未登录，不返回错误
func (m *Manager) Current(ctx context.Context, token string) (uint, bool) {
	if token == "" {
		return 0, false
	}
	c, err := m.signer.Parse(token)
	if err != nil {
		return 0, false
	}
	uid, ok, err := m.store.Get(ctx, c.SID)
	if err != nil {
		m.log.Warn("session lookup failed", zap.Error(err))
		return 0, false
	}
	if !ok || uid != c.UID {
		return 0, false
	}
	return uid, true
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return domain.Unauthenticated("User not authorized.")
	}
	c, err := m.signer.Parse(token)
	if err != nil {
		return domain.Unauthenticated("User not authorized.")
	}
	existed, err := m.store.Delete(ctx, c.SID)
	if err != nil {
		return err
	}
	if !existed {
		return domain.Unauthenticated("User not authorized.")
	}
	return nil
}
