package dto

import (
	"github.com/shopspring/decimal"

	"shop-microservices/internal/domain"
)

func init() {
	// 价格按数字输出（19.99 而不是 "19.99"）
	decimal.MarshalJSONWithoutQuotes = true
}

type ProductDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description" binding:"required,notblank,max=150"`
	Category    domain.Category `json:"category"    binding:"required,category"`
	Price       decimal.Decimal `json:"price"       binding:"gt=0"`
}

// ProductPatch 只更新出现的字段
type ProductPatch struct {
	Description *string          `json:"description" binding:"omitempty,notblank,max=150"`
	Category    *domain.Category `json:"category"    binding:"omitempty,category"`
	Price       *decimal.Decimal `json:"price"       binding:"omitempty,gt=0"`
}

type ProductQuery struct {
	Category string `form:"category" binding:"omitempty,category"`
	Page     int    `form:"page"     binding:"omitempty,min=1"`
	Size     int    `form:"size"     binding:"omitempty,min=1,max=100"`
}

func (q ProductQuery) Filter() domain.ProductFilter {
	f := domain.ProductFilter{Category: domain.Category(q.Category)}
	if q.Size > 0 {
		page := max(q.Page, 1)
		f.Limit = q.Size
		f.Offset = (page - 1) * q.Size
	}
	return f
}

func ToProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
	}
}

func ToProductDTOs(ps []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for i := range ps {
		out = append(out, ToProductDTO(&ps[i]))
	}
	return out
}

func (d ProductDTO) ToEntity() *domain.Product {
	return &domain.Product{
		ID:          d.ID,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price.Round(2),
	}
}

// Apply 把 PUT 的三个业务字段覆盖到 p（ID 不变）
func (d ProductDTO) Apply(p *domain.Product) {
	p.Description = d.Description
	p.Category = d.Category
	p.Price = d.Price.Round(2)
}

func (pt ProductPatch) Apply(p *domain.Product) {
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Price != nil {
		p.Price = pt.Price.Round(2)
	}
}
