package main

import (
	"time"

	_ "go.uber.org/automaxprocs"

	"shop-microservices/internal/app"
	"shop-microservices/internal/client/productclient"
	"shop-microservices/internal/core/mq"
	"shop-microservices/internal/domain"
	"shop-microservices/internal/repo"
	"shop-microservices/internal/service"
	"shop-microservices/internal/transport/http/router"
)

func main() {
	a := app.Init("sales-service")
	defer a.Close()
	cfg := a.Cfg

	db := a.OpenDB(&domain.Sale{})

	products := productclient.New(productclient.Options{
		BaseURL: cfg.ProductClient.BaseURL,
		Timeout: time.Duration(cfg.ProductClient.TimeoutSec) * time.Second,
	}, a.Log)

	// 未配置 broker 时不发事件
	var events service.EventPublisher = mq.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		p := mq.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.Log)
		a.OnClose(func() { _ = p.Close() })
		events = p
	}

	svc := service.NewSaleService(repo.NewSaleRepo(db), products, events, a.Log)
	r := router.NewEngine(a.Log, router.EngineOptions{
		HTTP:   cfg.HTTP,
		Checks: map[string]router.HealthCheck{"db": app.DBCheck(db)},
	}, router.SalesModule{Svc: svc})

	a.Serve(r)
}
