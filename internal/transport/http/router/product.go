package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-microservices/internal/dto"
	httpez "shop-microservices/internal/transport/http/ez"
)

type ProductAPI interface {
	List(ctx context.Context, q dto.ProductQuery) ([]dto.ProductDTO, error)
	Get(ctx context.Context, id int64) (dto.ProductDTO, error)
	Create(ctx context.Context, in dto.ProductDTO) (dto.ProductDTO, error)
	Update(ctx context.Context, id int64, in dto.ProductDTO) (dto.ProductDTO, error)
	Patch(ctx context.Context, id int64, in dto.ProductPatch) (dto.ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

type ProductModule struct {
	Svc        ProductAPI
	WriteRoles []string // 为空则写接口不校验角色
}

func (ProductModule) Priority() int { return 20 }

func (m ProductModule) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g.Group("/products"))

	httpez.RegisterAction(e, httpez.Action[dto.ProductQuery, []dto.ProductDTO]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, q *dto.ProductQuery) ([]dto.ProductDTO, error) {
			return m.Svc.List(c.Request.Context(), *q)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, dto.ProductDTO]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (dto.ProductDTO, error) {
			id, err := httpez.PathID(c, "id")
			if err != nil {
				return dto.ProductDTO{}, err
			}
			return m.Svc.Get(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.ProductDTO, dto.ProductDTO]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Roles:  m.WriteRoles,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.ProductDTO) (dto.ProductDTO, error) {
			return m.Svc.Create(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.ProductDTO, dto.ProductDTO]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Roles:  m.WriteRoles,
		Handler: func(c *gin.Context, in *dto.ProductDTO) (dto.ProductDTO, error) {
			id, err := httpez.PathID(c, "id")
			if err != nil {
				return dto.ProductDTO{}, err
			}
			return m.Svc.Update(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.ProductPatch, dto.ProductDTO]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Roles:  m.WriteRoles,
		Handler: func(c *gin.Context, in *dto.ProductPatch) (dto.ProductDTO, error) {
			id, err := httpez.PathID(c, "id")
			if err != nil {
				return dto.ProductDTO{}, err
			}
			return m.Svc.Patch(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Roles:  m.WriteRoles,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := httpez.PathID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, m.Svc.Delete(c.Request.Context(), id)
		},
	})
}
