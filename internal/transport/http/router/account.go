package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-microservices/internal/dto"
	httpez "shop-microservices/internal/transport/http/ez"
)

type AccountAPI interface {
	Register(ctx context.Context, in dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, in dto.LoginRequest) (dto.TokenResponse, error)
	Profile(ctx context.Context, accountID int64) (dto.AccountProfile, error)
}

type AccountModule struct {
	Svc AccountAPI
}

func (AccountModule) Priority() int { return 10 }

func (m AccountModule) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g.Group("/accounts"))

	httpez.RegisterAction(e, httpez.Action[dto.RegisterRequest, dto.RegisterResponse]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.RegisterRequest) (dto.RegisterResponse, error) {
			return m.Svc.Register(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.LoginRequest, dto.TokenResponse]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *dto.LoginRequest) (dto.TokenResponse, error) {
			return m.Svc.Login(c.Request.Context(), *in)
		},
	})

	// /me 依赖网关注入的 X-User-Id
	httpez.RegisterAction(e, httpez.Action[struct{}, dto.AccountProfile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (dto.AccountProfile, error) {
			uid, _ := httpez.UserID(c)
			return m.Svc.Profile(c.Request.Context(), uid)
		},
	})
}
