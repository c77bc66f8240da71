package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-microservices/internal/client/productclient"
	"shop-microservices/internal/dto"
	httpez "shop-microservices/internal/transport/http/ez"
	mdw "shop-microservices/internal/transport/http/middleware"
)

type SalesAPI interface {
	Create(ctx context.Context, in dto.SaleRequest) (dto.SaleResponse, error)
	ListByUser(ctx context.Context, userID int64) ([]dto.SaleResponse, error)
}

type SalesModule struct {
	Svc SalesAPI
}

func (SalesModule) Priority() int { return 30 }

func (m SalesModule) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g.Group("/sales"))

	httpez.RegisterAction(e, httpez.Action[dto.SaleRequest, dto.SaleResponse]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.SaleRequest) (dto.SaleResponse, error) {
			in.UserID, _ = httpez.UserID(c)
			ctx := productclient.WithRequestID(c.Request.Context(), c.GetString(mdw.KeyRequestID))
			return m.Svc.Create(ctx, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []dto.SaleResponse]{
		Method: http.MethodGet,
		Path:   "/user/:userId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]dto.SaleResponse, error) {
			uid, err := httpez.PathID(c, "userId")
			if err != nil {
				return nil, err
			}
			return m.Svc.ListByUser(c.Request.Context(), uid)
		},
	})
}
