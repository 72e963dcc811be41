package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hoanghieund/sale-project-sub002/internal/cache"
	"github.com/hoanghieund/sale-project-sub002/internal/catalog"
	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/repository"
	"github.com/shopspring/decimal"
)

type mockRepository struct {
	m     sync.RWMutex
	cart  *domain.Cart
	err   error
	reads atomic.Int32
	// afterRead runs once the cart has been read, before it is returned.
	afterRead func()
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.reads.Add(1)
	cart, err := m.snapshot()
	if m.afterRead != nil {
		m.afterRead()
	}
	return cart, err
}

func (m *mockRepository) snapshot() (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	c := *m.cart
	c.Items = append([]domain.CartItem(nil), m.cart.Items...)
	return &c, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = c
	return m.err
}

func (m *mockRepository) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{UserID: userID}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockRepository) UpdateItemQuantity(_ context.Context, _ string, productID int64, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockRepository) RemoveItem(_ context.Context, _ string, productID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.cart.Items {
		if item.ProductID == productID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCatalog struct {
	products map[int64]*domain.Product
	err      error
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalog) GetProductsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	found := make(map[int64]*domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func product(id int64, shopID, price, sale string) *domain.Product {
	p := &domain.Product{
		ID:       id,
		ShopID:   shopID,
		ShopName: "Shop " + shopID,
		Name:     "Product",
		Price:    decimal.RequireFromString(price),
	}
	if sale != "" {
		p.PriceSale = decimal.NewNullDecimal(decimal.RequireFromString(sale))
	}
	return p
}

func newCatalog() *mockCatalog {
	return &mockCatalog{products: map[int64]*domain.Product{
		1: product(1, "a", "10.00", "7.00"),
		2: product(2, "b", "4.50", ""),
		3: product(3, "a", "1.25", ""),
	}}
}
