package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hoanghieund/sale-project-sub002/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "shop_id", "shop_name", "name", "description", "price", "price_sale", "image_url", "created_at"}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepositoryFromDB(db), mock
}

func TestListProducts_CountFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).
		WillReturnError(errors.New("disk I/O error"))

	_, _, err := repo.ListProducts(context.Background(), pagination.Page{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_UsesLimitAndOffset(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT ? OFFSET ?`)).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(21, "shop-a", "Shop A", "Mug", "", "12.00", nil, "", time.Now()))

	products, total, err := repo.ListProducts(context.Background(), pagination.Page{Number: 3, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 30, total)
	require.Len(t, products, 1)
	assert.Equal(t, "12", products[0].Price.String())
	assert.False(t, products[0].PriceSale.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductsByIDs_QueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + productColumns + ` FROM products WHERE id IN (?,?)`)).
		WithArgs(int64(1), int64(2)).
		WillReturnError(errors.New("database is locked"))

	_, err := repo.GetProductsByIDs(context.Background(), []int64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_ScanFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(7, "shop-a", "Shop A", "Mug", "", "not-a-number", nil, "", time.Now()))

	_, err := repo.GetProduct(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan product")
}
