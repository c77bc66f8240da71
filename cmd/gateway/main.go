package main

import (
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"shop-microservices/internal/app"
	"shop-microservices/internal/core/auth"
	"shop-microservices/internal/gateway"
)

func main() {
	a := app.Init("gateway")
	defer a.Close()
	cfg := a.Cfg

	pub, err := auth.LoadPublicKey(cfg.JWT.PublicKeyPath)
	if err != nil {
		a.Fatal("load jwt public key", err)
	}

	r, err := gateway.New(a.Log, gateway.Options{
		Gateway: cfg.Gateway,
		HTTP:    cfg.HTTP,
		Tokens:  &auth.JWTer{PublicKey: pub, Issuer: cfg.JWT.Issuer, Leeway: 30 * time.Second},
	})
	if err != nil {
		a.Fatal("build gateway", err)
	}
	for _, rt := range cfg.Gateway.Routes {
		a.Log.Info("route", zap.String("name", rt.Name), zap.String("prefix", rt.Prefix), zap.Strings("upstreams", rt.Upstreams))
	}

	a.Serve(r)
}
