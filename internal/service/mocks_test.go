package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/dto"
)

type accountRepoMock struct{ mock.Mock }

func (m *accountRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *accountRepoMock) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *accountRepoMock) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *accountRepoMock) CreateWithRole(ctx context.Context, a *domain.Account, role domain.Role) error {
	return m.Called(ctx, a, role).Error(0)
}

func (m *accountRepoMock) FindRole(ctx context.Context, accountID int64) (*domain.UserRole, error) {
	args := m.Called(ctx, accountID)
	r, _ := args.Get(0).(*domain.UserRole)
	return r, args.Error(1)
}

type issuerMock struct{ mock.Mock }

func (m *issuerMock) Issue(accountID int64, email, role string) (string, error) {
	args := m.Called(accountID, email, role)
	return args.String(0), args.Error(1)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *productRepoMock) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *productRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// mapCache 内存版 ProductCache
type mapCache struct {
	items       map[string]*domain.Product
	invalidated []string
}

func newMapCache() *mapCache { return &mapCache{items: map[string]*domain.Product{}} }

func (c *mapCache) Get(ctx context.Context, key string, load func(context.Context) (*domain.Product, error)) (*domain.Product, error) {
	if p, ok := c.items[key]; ok {
		return p, nil
	}
	p, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.items[key] = p
	return p, nil
}

func (c *mapCache) Invalidate(_ context.Context, key string) error {
	delete(c.items, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

type saleRepoMock struct{ mock.Mock }

func (m *saleRepoMock) Create(ctx context.Context, s *domain.Sale) error {
	return m.Called(ctx, s).Error(0)
}

func (m *saleRepoMock) ListByUser(ctx context.Context, userID int64) ([]domain.Sale, error) {
	args := m.Called(ctx, userID)
	ss, _ := args.Get(0).([]domain.Sale)
	return ss, args.Error(1)
}

type lookupMock struct{ mock.Mock }

func (m *lookupMock) GetProduct(ctx context.Context, id int64) (*dto.ProductSummary, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*dto.ProductSummary)
	return p, args.Error(1)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, eventType, key string, payload any) error {
	return m.Called(ctx, eventType, key, payload).Error(0)
}
