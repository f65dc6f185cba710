package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"furrylink/internal/core/server"
	mdw "furrylink/internal/transport/http/middleware"
	resp "furrylink/internal/transport/http/response"
)

// Probe 依赖探活（数据库、redis）；nil 表示无需探活
type Probe func(ctx context.Context) error

// NewOpsEngine 运维端口：/health 探活 + /metrics
func NewOpsEngine(l *zap.Logger, probes map[string]Probe) *gin.Engine {
	r := server.NewEngine(l, nil)
	r.Use(mdw.RequestID())

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		failed := gin.H{}
		for name, p := range probes {
			if p == nil {
				continue
			}
			if err := p(ctx); err != nil {
				l.Warn("health probe failed", zap.String("probe", name), zap.Error(err))
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, resp.WithDetails(resp.CodeServiceUnavailable, "unhealthy", failed))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
