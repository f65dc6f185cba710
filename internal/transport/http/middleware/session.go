package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"furrylink/internal/domain"
)

// KeyUserID 登录用户 id 在 gin.Context 中的 key
const KeyUserID = "userId"

// Cookies 会话 cookie 的读写；跨站前端需要 SameSite=None + Secure
type Cookies struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	}
	return http.SameSiteDefaultMode
}

func (m *Cookies) Set(c *gin.Context, token string) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, token, int(m.TTL.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *Cookies) Clear(c *gin.Context) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *Cookies) Read(c *gin.Context) string {
	v, err := c.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return v
}

// Resolver 由 session.Manager 实现
type Resolver interface {
	Current(ctx context.Context, token string) (uint, bool)
}

// Session 解析会话 cookie；未登录不拦截，交给具体接口判断
func Session(r Resolver, cookies *Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := cookies.Read(c); tok != "" {
			if uid, ok := r.Current(c.Request.Context(), tok); ok {
				c.Set(KeyUserID, uid)
			}
		}
		c.Next()
	}
}

// Identity 当前请求的调用方
func Identity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(KeyUserID); ok {
		if uid, ok := v.(uint); ok {
			return domain.Identity{UserID: uid}
		}
	}
	return domain.Anonymous()
}
