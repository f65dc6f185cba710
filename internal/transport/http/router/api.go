package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"furrylink/internal/core/config"
	"furrylink/internal/core/server"
	"furrylink/internal/core/session"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/handler"
	mdw "furrylink/internal/transport/http/middleware"
)

type Deps struct {
	Log          *zap.Logger
	Config       *config.Config
	Sessions     *session.Manager
	Auth         *service.AuthService
	Users        *service.UserService
	Pets         *service.PetService
	Reviews      *service.ReviewService
	Applications *service.ApplicationService
}

func CookiesFromConfig(s config.Session) *mdw.Cookies {
	return &mdw.Cookies{
		Name:     s.CookieName,
		Domain:   s.CookieDomain,
		Secure:   s.CookieSecure,
		SameSite: mdw.ParseSameSite(s.SameSite),
		TTL:      s.TTL(),
	}
}

func NewAPIEngine(d Deps) *gin.Engine {
	cfg := d.Config
	r := server.NewEngine(d.Log, cfg.CORS.AllowOrigins)

	// 中间件
	mws := []gin.HandlerFunc{mdw.RequestID()}
	if cfg.Limits.RPS > 0 {
		mws = append(mws, mdw.RateLimit(rate.Limit(cfg.Limits.RPS), max(1, cfg.Limits.Burst)))
	}
	if cfg.Limits.Concurrency > 0 {
		mws = append(mws, mdw.ConcurrencyLimit(cfg.Limits.Concurrency))
	}
	mws = append(mws, mdw.MaxBodyBytes(cfg.Upload.MaxBytes()+1<<20)) // 文件上限 + 表单字段余量
	if cfg.Limits.TimeoutSec > 0 {
		mws = append(mws, mdw.Timeout(time.Duration(cfg.Limits.TimeoutSec)*time.Second))
	}
	cookies := CookiesFromConfig(cfg.Session)
	mws = append(mws, mdw.Metrics(), mdw.AccessLog(d.Log), mdw.Session(d.Sessions, cookies))
	r.Use(mws...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	var loginLimit gin.HandlerFunc
	if cfg.Limits.LoginRPS > 0 {
		loginLimit = mdw.RateLimitPerIP(rate.Limit(cfg.Limits.LoginRPS), max(1, cfg.Limits.LoginBurst), 10*time.Minute)
	}

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(d.Auth, cookies, loginLimit, d.Log),
		handler.NewUserHandler(d.Users, d.Log),
		handler.NewPetHandler(d.Pets, d.Log),
		handler.NewReviewHandler(d.Reviews, d.Log),
		handler.NewApplicationHandler(d.Applications, d.Log),
	)
	reg.MountAll(&r.RouterGroup)
	return r
}
