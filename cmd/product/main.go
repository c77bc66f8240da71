package main

import (
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"shop-microservices/internal/app"
	"shop-microservices/internal/core/cache"
	"shop-microservices/internal/domain"
	"shop-microservices/internal/repo"
	"shop-microservices/internal/service"
	"shop-microservices/internal/transport/http/router"
)

func main() {
	a := app.Init("product-service")
	defer a.Close()
	cfg := a.Cfg

	db := a.OpenDB(&domain.Product{})
	checks := map[string]router.HealthCheck{"db": app.DBCheck(db)}

	// redis 可选
	var pc service.ProductCache
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.OnClose(func() { _ = c.Close() })
		pc = cache.NewJSON[domain.Product](c, "product:", time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		checks["redis"] = c.Ping
		a.Log.Info("product cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	svc := service.NewProductService(repo.NewProductRepo(db), pc, a.Log)
	r := router.NewEngine(a.Log, router.EngineOptions{HTTP: cfg.HTTP, Checks: checks},
		router.ProductModule{Svc: svc, WriteRoles: cfg.Product.WriteRoles})

	a.Serve(r)
}
