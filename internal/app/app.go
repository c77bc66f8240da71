// Package app 四个可执行程序共用的启动流程
package app

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"shop-microservices/internal/core/config"
	"shop-microservices/internal/core/database"
	"shop-microservices/internal/core/logger"
	"shop-microservices/internal/core/server"
)

type App struct {
	Name    string
	Cfg     *config.Config
	Log     *zap.Logger
	closers []func()
	once    sync.Once
	exit    func(code int) // 为空时 os.Exit
}

// Init 读取 .env 和配置，构建日志；配置错误直接退出
func Init(name string) *App {
	_ = godotenv.Load()
	cfg := config.MustLoad("")
	if cfg.App.Name == "" {
		cfg.App.Name = name
	}
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	l, cleanup := logger.Build(logger.Options{
		Level:   cfg.Log.Level,
		JSON:    cfg.Log.JSON,
		Service: cfg.App.Name,
		Rotate: logger.FileRotate{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})
	a := &App{Name: cfg.App.Name, Cfg: cfg, Log: l}
	a.OnClose(cleanup)
	a.OnClose(logger.RedirectStdLog(l, zapcore.InfoLevel))
	return a
}

// OnClose 退出时逆序执行
func (a *App) OnClose(fn func()) { a.closers = append(a.closers, fn) }

// Close 只执行一次；Fatal 之后 main 里的 defer 不会再跑一遍
func (a *App) Close() {
	a.once.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			a.closers[i]()
		}
	})
}

// Fatal 记录错误，执行 closers（含日志 Sync）后以 1 退出
func (a *App) Fatal(msg string, err error) {
	a.Log.Error(msg, zap.Error(err))
	a.Close()
	exit := a.exit
	if exit == nil {
		exit = os.Exit
	}
	exit(1)
}

// OpenDB 连接数据库，开启 auto_migrate 时迁移 models
func (a *App) OpenDB(models ...any) *gorm.DB {
	c := a.Cfg.DB
	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
		PrepareStmt:        true,
		Logger:             a.Log,
	})
	if err != nil {
		a.Fatal("db open", err)
	}
	a.Log.Info("database connected", zap.String("driver", c.Driver))

	if c.AutoMigrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			a.Fatal("automigrate failed", err)
		}
		a.Log.Info("automigrate done", zap.Int("models", len(models)))
	}
	a.OnClose(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// DBCheck 给 /health 用
func DBCheck(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// Serve 阻塞到收到退出信号
func (a *App) Serve(h http.Handler) {
	hc := a.Cfg.HTTP
	addr := server.Addr(hc.Host, hc.Port)
	srv := server.BuildServer(addr, h,
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
	)
	a.Log.Info(a.Name+" starting", zap.String("addr", addr), zap.String("env", a.Cfg.App.Env))
	if err := server.Run(srv, a.Log, 10*time.Second); err != nil {
		a.Fatal(a.Name+" stopped with error", err)
	}
}
