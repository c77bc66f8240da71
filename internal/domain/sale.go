package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Sale struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ProductID int64     `gorm:"not null;index"`
	UserID    int64     `gorm:"not null;index"`
	Quantity  int       `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	SaleDate  time.Time `gorm:"not null"`
}

func (Sale) TableName() string { return "sales" }

// BeforeCreate 新建时默认 active=true、sale_date=now
func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.SaleDate.IsZero() {
		s.SaleDate = time.Now()
	}
	s.Active = true
	return nil
}

type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	ListByUser(ctx context.Context, userID int64) ([]Sale, error)
}
