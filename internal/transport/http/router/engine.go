package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"appointment-booking/internal/core/config"
	"appointment-booking/internal/core/server"
	mdw "appointment-booking/internal/transport/http/middleware"
	resp "appointment-booking/internal/transport/http/response"
)

func onPanic(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Message("internal error"))
}

func mountProbes(r *gin.Engine) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// NewAPIEngine 预约接口：路由挂在根路径，与对外契约一致
func NewAPIEngine(l *zap.Logger, lim config.Limits, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, onPanic)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.RequestTimeoutMs)*time.Millisecond),
		mdw.Metrics("api"),
		mdw.AccessLog(l),
	)
	mountProbes(r)
	reg.MountAllAPI(r.Group(""))
	return r
}

// NewAdminEngine 管理端，默认只监听 127.0.0.1
func NewAdminEngine(l *zap.Logger, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, onPanic)
	r.Use(
		mdw.RequestID(),
		ginzap.Ginzap(l, time.RFC3339, true),
		mdw.Metrics("admin"),
	)
	mountProbes(r)
	reg.MountAllAdmin(r.Group("/admin/v1"))
	return r
}
