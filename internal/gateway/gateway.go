// Package gateway 是 API 网关：路由、路径改写、JWT 过滤和身份头注入
package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"shop-microservices/internal/core/config"
	"shop-microservices/internal/core/server"
	mdw "shop-microservices/internal/transport/http/middleware"
)

type Options struct {
	Gateway config.Gateway
	HTTP    config.HTTP
	Tokens  mdw.TokenParser
}

func New(l *zap.Logger, o Options) (*gin.Engine, error) {
	table, err := NewTable(o.Gateway.Routes)
	if err != nil {
		return nil, err
	}
	paths, prefixes := o.Gateway.PublicPaths, o.Gateway.PublicPrefixes
	if len(paths) == 0 {
		paths = DefaultPublicPaths
	}
	if len(prefixes) == 0 {
		prefixes = DefaultPublicPrefixes
	}
	public := NewPublicMatcher(paths, prefixes)
	proxy := NewProxy(table, time.Duration(o.Gateway.TimeoutSec)*time.Second, l)

	rps, burst := o.HTTP.RateLimitRPS, o.HTTP.RateLimitBurst
	if rps <= 0 {
		rps, burst = 200, 400
	}

	r := server.NewRouter(l, server.Options{Name: "gateway", LogContext: logFields, TrustedProxies: o.HTTP.TrustedProxies})
	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(rate.Limit(rps), burst),
		mdw.Metrics(),
		mdw.AuthJWT(o.Tokens, public.IsPublic),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(proxy.Handle)
	return r, nil
}

// logFields 访问日志附加路由名和调用方
func logFields(c *gin.Context) []zapcore.Field {
	fields := []zapcore.Field{zap.String("rid", c.GetString(mdw.KeyRequestID))}
	if route := c.GetString(keyRoute); route != "" {
		fields = append(fields, zap.String("route", route))
	}
	if uid, ok := c.Get(mdw.KeyUserID); ok {
		fields = append(fields, zap.Any("user_id", uid))
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
