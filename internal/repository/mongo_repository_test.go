package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) *MongoRepository {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	return repo
}

func TestGetCart_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	cart, err := repo.GetCart(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestAddItem_NewCart(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	err := repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 1, ShopID: "shop-a", Quantity: 3})
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.Items[0].ProductID)
	assert.Equal(t, "shop-a", cart.Items[0].ShopID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItem_ExistingItem_OverwritesQuantity(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 1, ShopID: "shop-a", Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 1, ShopID: "shop-a", Quantity: 5}))

	cart, err := repo.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 9, ShopID: "shop-b", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 2, ShopID: "shop-a", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 4, ShopID: "shop-b", Quantity: 1}))

	cart, err := repo.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 3)
	assert.Equal(t, []int64{9, 2, 4}, []int64{cart.Items[0].ProductID, cart.Items[1].ProductID, cart.Items[2].ProductID})
}

func TestAddItem_ConcurrentFirstAdds(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(productID int64) {
			defer wg.Done()
			errs <- repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: productID, ShopID: "shop-a", Quantity: 1})
		}(int64(i + 1))
		go func() {
			defer wg.Done()
			errs <- repo.AddItem(ctx, "user-2", domain.CartItem{ProductID: 1, ShopID: "shop-a", Quantity: 2})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := repo.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, n)

	cart, err = repo.GetCart(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 1, ShopID: "shop-a", Quantity: 2}))
	require.NoError(t, repo.UpdateItemQuantity(ctx, "user-1", 1, 10))

	cart, err := repo.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, cart.Items[0].Quantity)

	err = repo.UpdateItemQuantity(ctx, "user-1", 42, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 1, ShopID: "shop-a", Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, "user-1", domain.CartItem{ProductID: 2, ShopID: "shop-a", Quantity: 3}))
	require.NoError(t, repo.RemoveItem(ctx, "user-1", 1))

	cart, err := repo.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ProductID)

	assert.ErrorIs(t, repo.RemoveItem(ctx, "nobody", 1), ErrCartNotFound)
}

func TestUpsertAndDeleteCart(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	cart := &domain.Cart{
		UserID: "user-2",
		Items:  []domain.CartItem{{ProductID: 3, ShopID: "shop-c", Quantity: 1}},
	}
	require.NoError(t, repo.UpsertCart(ctx, cart))
	assert.False(t, cart.CreatedAt.IsZero())

	stored, err := repo.GetCart(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)

	require.NoError(t, repo.DeleteCart(ctx, "user-2"))
	_, err = repo.GetCart(ctx, "user-2")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.ErrorIs(t, repo.DeleteCart(ctx, "user-2"), ErrCartNotFound)
}

func TestContextCancellation(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(10 * time.Millisecond)

	_, err := repo.GetCart(ctx, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}
