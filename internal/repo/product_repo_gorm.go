package repo

import (
	"context"

	"gorm.io/gorm"

	"shop-microservices/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

var _ domain.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Limit > 0 {
		tx = tx.Offset(f.Offset).Limit(f.Limit)
	}
	var ps []domain.Product
	if err := tx.Order("id").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if notFound(err) {
		return nil, domain.NotFound("Product", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update 只写业务字段，行不存在返回 NotFound
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{ID: p.ID}).Updates(map[string]any{
		"description": p.Description,
		"category":    p.Category,
		"price":       p.Price,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Product", p.ID)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Product", id)
	}
	return nil
}
