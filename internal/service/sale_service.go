package service

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/dto"
)

const EventSaleCreated = "sale.created"

// 发布事件的上限，不受请求 ctx 取消影响
var publishTimeout = 2 * time.Second

var salesCreated = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "sales_created_total",
	Help: "Count of persisted sales",
})

func init() { prometheus.MustRegister(salesCreated) }

// ProductLookup 查询 product-service；不存在返回 domain.ErrNotFound，不可用返回 domain.ErrUpstream
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*dto.ProductSummary, error)
}

// EventPublisher *mq.Producer / mq.Nop 满足
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type SaleService struct {
	repo     domain.SaleRepository
	products ProductLookup
	events   EventPublisher
	log      *zap.Logger
}

func NewSaleService(repo domain.SaleRepository, products ProductLookup, events EventPublisher, l *zap.Logger) *SaleService {
	return &SaleService{repo: repo, products: products, events: events, log: l}
}

// Create 先同步确认商品存在，再落库
func (s *SaleService) Create(ctx context.Context, in dto.SaleRequest) (dto.SaleResponse, error) {
	if _, err := s.products.GetProduct(ctx, in.ProductID); err != nil {
		return dto.SaleResponse{}, err
	}

	sale := in.ToEntity()
	if err := s.repo.Create(ctx, sale); err != nil {
		return dto.SaleResponse{}, err
	}
	salesCreated.Inc()

	out := dto.ToSaleResponse(sale)
	// 事件尽力而为，失败不回滚
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(pctx, EventSaleCreated, strconv.FormatInt(sale.UserID, 10), out); err != nil {
		s.log.Warn("sale event not published", zap.Int64("sale_id", sale.ID), zap.Error(err))
	}
	return out, nil
}

func (s *SaleService) ListByUser(ctx context.Context, userID int64) ([]dto.SaleResponse, error) {
	ss, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToSaleResponses(ss), nil
}
