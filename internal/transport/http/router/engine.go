package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"shop-microservices/internal/core/config"
	"shop-microservices/internal/core/server"
	httpez "shop-microservices/internal/transport/http/ez"
	mdw "shop-microservices/internal/transport/http/middleware"
	resp "shop-microservices/internal/transport/http/response"
)

// HealthCheck 返回非 nil 时 /health 报 503
type HealthCheck func(ctx context.Context) error

type EngineOptions struct {
	HTTP   config.HTTP
	Checks map[string]HealthCheck
}

// NewEngine 服务通用的 gin 引擎：中间件链 + /health + /metrics + 业务模块
func NewEngine(l *zap.Logger, o EngineOptions, mods ...APIModule) *gin.Engine {
	httpez.RegisterValidators()
	h := withDefaults(o.HTTP)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	server.TrustProxies(r, l, h.TrustedProxies)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst),
		mdw.ConcurrencyLimit(h.MaxConcurrent),
		mdw.MaxBodyBytes(h.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(h.RequestTimeoutSec)*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
		mdw.Identity(),
	)

	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "no handler for "+c.Request.URL.Path) })
	r.NoMethod(func(c *gin.Context) { resp.Abort(c, http.StatusMethodNotAllowed, "method not allowed") })

	// 健康检查
	r.GET("/health", health(o.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var reg Registry
	reg.Register(mods...)
	reg.MountAll(&r.RouterGroup)
	return r
}

// withDefaults 零值会让限流/超时中间件拒绝所有请求
func withDefaults(h config.HTTP) config.HTTP {
	if h.RateLimitRPS <= 0 {
		h.RateLimitRPS = 200
	}
	if h.RateLimitBurst <= 0 {
		h.RateLimitBurst = 400
	}
	if h.MaxConcurrent <= 0 {
		h.MaxConcurrent = 300
	}
	if h.MaxBodyMB <= 0 {
		h.MaxBodyMB = 16
	}
	if h.RequestTimeoutSec <= 0 {
		h.RequestTimeoutSec = 10
	}
	return h
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		details := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				details[name] = err.Error()
				continue
			}
			details[name] = "UP"
		}
		state := "UP"
		if status != http.StatusOK {
			state = "DOWN"
		}
		c.JSON(status, gin.H{"status": state, "checks": details})
	}
}
