package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/testutil"
)

var productCols = []string{"id", "description", "category", "price", "created_at", "updated_at"}

func TestProductRepo_ListByCategory(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE category = \$1 ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(1, "Mouse", "PERIPHERALS", "19.99", now, now).
			AddRow(2, "Teclado", "PERIPHERALS", "120.00", now, now))

	ps, err := NewProductRepo(db).List(context.Background(), domain.ProductFilter{Category: domain.CategoryPeripherals})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.True(t, ps[0].Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, domain.CategoryPeripherals, ps[1].Category)
}

func TestProductRepo_ListPaged(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "products" ORDER BY id LIMIT`).
		WillReturnRows(sqlmock.NewRows(productCols))

	ps, err := NewProductRepo(db).List(context.Background(), domain.ProductFilter{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestProductRepo_FindByID_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(productCols))

	_, err := NewProductRepo(db).FindByID(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Product not found with id: 5")
}

func TestProductRepo_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`INSERT INTO "products"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	p := &domain.Product{Description: "SSD", Category: domain.CategoryInternalComponents, Price: decimal.NewFromInt(300)}
	require.NoError(t, NewProductRepo(db).Create(context.Background(), p))
	assert.Equal(t, int64(11), p.ID)
}

func TestProductRepo_Update(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectExec(`UPDATE "products" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	p := &domain.Product{ID: 4, Description: "SSD", Category: domain.CategoryInternalComponents, Price: decimal.NewFromInt(300)}
	require.NoError(t, NewProductRepo(db).Update(context.Background(), p))
}

func TestProductRepo_Update_Missing(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectExec(`UPDATE "products" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewProductRepo(db).Update(context.Background(), &domain.Product{ID: 4, Description: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_Delete(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectExec(`DELETE FROM "products" WHERE "products"."id" = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, NewProductRepo(db).Delete(context.Background(), 4))

	mock.ExpectExec(`DELETE FROM "products"`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, NewProductRepo(db).Delete(context.Background(), 4), domain.ErrNotFound)
}
