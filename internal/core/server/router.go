package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Name       string
	Mode       string
	LogContext ginzap.Fn // 访问日志额外字段
	// 只有这些代理的 X-Forwarded-For 会被 ClientIP 采信
	TrustedProxies []string
}

// NewRouter 带 zap 访问日志、panic 恢复和 CORS 的 gin 引擎
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	TrustProxies(r, l, o.TrustedProxies)
	r.Use(ginzap.GinzapWithConfig(l.With(zap.String("component", o.Name)), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context:    o.LogContext,
	}))
	r.Use(ginzap.RecoveryWithZap(l, true))
	r.Use(cors.Default())
	return r
}

// TrustProxies 配置非法时退回到不信任任何代理
func TrustProxies(r *gin.Engine, l *zap.Logger, proxies []string) {
	if err := r.SetTrustedProxies(proxies); err != nil {
		l.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", proxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run 启动并阻塞到 SIGINT/SIGTERM，然后优雅关闭
func Run(srv *http.Server, l *zap.Logger, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		l.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("http stopped gracefully")
	return nil
}
