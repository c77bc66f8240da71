package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPeripherals        Category = "PERIPHERALS"
	CategoryInternalComponents Category = "INTERNAL_COMPONENTS"
	CategoryComputers          Category = "COMPUTERS"
	CategorySoftware           Category = "SOFTWARE"
	CategoryAccessories        Category = "ACCESSORIES"
)

var categoryNames = map[Category]string{
	CategoryPeripherals:        "Periféricos",
	CategoryInternalComponents: "Componentes Internos",
	CategoryComputers:          "Computadores",
	CategorySoftware:           "Software",
	CategoryAccessories:        "Acessórios",
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) DisplayName() string { return categoryNames[c] }

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Description string          `gorm:"size:150;not null"`
	Category    Category        `gorm:"size:32;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// ProductFilter Limit 为 0 表示不分页
type ProductFilter struct {
	Category Category
	Offset   int
	Limit    int
}

type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
