package dto

import (
	"time"

	"shop-microservices/internal/domain"
)

type SaleRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity"  binding:"required,gt=0"`
	UserID    int64 `json:"-"` // 来自 X-User-Id
}

type SaleResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Quantity  int       `json:"quantity"`
	SaleDate  time.Time `json:"saleDate"`
}

// ProductSummary product-service 返回体中 sales 关心的部分
type ProductSummary struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (r SaleRequest) ToEntity() *domain.Sale {
	return &domain.Sale{
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Quantity:  r.Quantity,
	}
}

func ToSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:        s.ID,
		ProductID: s.ProductID,
		UserID:    s.UserID,
		Quantity:  s.Quantity,
		SaleDate:  s.SaleDate,
	}
}

func ToSaleResponses(ss []domain.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(ss))
	for i := range ss {
		out = append(out, ToSaleResponse(&ss[i]))
	}
	return out
}
