package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/dto"
)

// ProductCache 由 cache.JSONCache[domain.Product] 实现
type ProductCache interface {
	Get(ctx context.Context, key string, load func(context.Context) (*domain.Product, error)) (*domain.Product, error)
	Invalidate(ctx context.Context, key string) error
}

type ProductService struct {
	repo  domain.ProductRepository
	cache ProductCache // 可为 nil
	log   *zap.Logger
}

func NewProductService(repo domain.ProductRepository, cache ProductCache, l *zap.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, log: l}
}

func (s *ProductService) List(ctx context.Context, q dto.ProductQuery) ([]dto.ProductDTO, error) {
	ps, err := s.repo.List(ctx, q.Filter())
	if err != nil {
		return nil, err
	}
	return dto.ToProductDTOs(ps), nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (dto.ProductDTO, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return dto.ProductDTO{}, err
	}
	return dto.ToProductDTO(p), nil
}

func (s *ProductService) Create(ctx context.Context, in dto.ProductDTO) (dto.ProductDTO, error) {
	p := in.ToEntity()
	p.ID = 0 // id 由数据库分配
	if err := s.repo.Create(ctx, p); err != nil {
		return dto.ProductDTO{}, err
	}
	s.log.Info("product created", zap.Int64("id", p.ID), zap.String("category", string(p.Category)))
	return dto.ToProductDTO(p), nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in dto.ProductDTO) (dto.ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ProductDTO{}, err
	}
	in.Apply(p)
	return s.save(ctx, p)
}

func (s *ProductService) Patch(ctx context.Context, id int64, in dto.ProductPatch) (dto.ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ProductDTO{}, err
	}
	in.Apply(p)
	return s.save(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) save(ctx context.Context, p *domain.Product) (dto.ProductDTO, error) {
	if err := s.repo.Update(ctx, p); err != nil {
		return dto.ProductDTO{}, err
	}
	s.invalidate(ctx, p.ID)
	return dto.ToProductDTO(p), nil
}

func (s *ProductService) find(ctx context.Context, id int64) (*domain.Product, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.cache.Get(ctx, strconv.FormatInt(id, 10), func(ctx context.Context) (*domain.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, strconv.FormatInt(id, 10)); err != nil {
		s.log.Warn("product cache invalidate failed", zap.Int64("id", id), zap.Error(err))
	}
}
