package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/core/config"
)

// NewEngine 基础 engine：panic 恢复 + 带凭据的 CORS（前端跨站携带会话 cookie）
func NewEngine(l *zap.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(l, true))
	if c, ok := corsConfig(origins); ok {
		r.Use(cors.New(c))
	}
	return r
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// 带凭据时不能回 "*"，改为回显请求的 Origin
			c.AllowOriginFunc = func(string) bool { return true }
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

func FromConfig(h config.HTTP, handler http.Handler) *http.Server {
	return BuildServer(Addr(h.Host, h.Port), handler,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Start 异步启动；监听失败时回调 onErr
func Start(srv *http.Server, name string, l *zap.Logger, onErr func(error)) {
	go func() {
		l.Info(name+" starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			onErr(fmt.Errorf("%s: %w", name, err))
		}
	}()
}

// Shutdown 依次优雅关闭
func Shutdown(ctx context.Context, l *zap.Logger, srvs ...*http.Server) {
	for _, s := range srvs {
		if s == nil {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			l.Warn("http shutdown", zap.String("addr", s.Addr), zap.Error(err))
		}
	}
}
