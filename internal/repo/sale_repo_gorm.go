package repo

import (
	"context"

	"gorm.io/gorm"

	"shop-microservices/internal/domain"
)

type SaleRepo struct{ db *gorm.DB }

func NewSaleRepo(db *gorm.DB) *SaleRepo { return &SaleRepo{db: db} }

var _ domain.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ListByUser 按 sale_date 倒序
func (r *SaleRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Sale, error) {
	var ss []domain.Sale
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sale_date desc").
		Find(&ss).Error
	if err != nil {
		return nil, err
	}
	return ss, nil
}
