package main

import (
	_ "go.uber.org/automaxprocs"

	"shop-microservices/internal/app"
	"shop-microservices/internal/core/auth"
	"shop-microservices/internal/domain"
	"shop-microservices/internal/repo"
	"shop-microservices/internal/service"
	"shop-microservices/internal/transport/http/router"
)

func main() {
	a := app.Init("account-service")
	defer a.Close()
	cfg := a.Cfg

	db := a.OpenDB(&domain.Account{}, &domain.UserRole{})

	// JWT 私钥只在 account-service 上
	priv, err := auth.LoadPrivateKey(cfg.JWT.PrivateKeyPath)
	if err != nil {
		a.Fatal("load jwt private key", err)
	}
	jwter := &auth.JWTer{PrivateKey: priv, Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}

	svc := service.NewAccountService(repo.NewAccountRepo(db), jwter, cfg.JWT.TTL(), a.Log)
	r := router.NewEngine(a.Log, router.EngineOptions{
		HTTP:   cfg.HTTP,
		Checks: map[string]router.HealthCheck{"db": app.DBCheck(db)},
	}, router.AccountModule{Svc: svc})

	a.Serve(r)
}
