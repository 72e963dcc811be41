package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hoanghieund/sale-project-sub002/internal/catalog"
	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/preferences"
	"github.com/hoanghieund/sale-project-sub002/internal/pricing"
	"github.com/hoanghieund/sale-project-sub002/internal/service"
	"github.com/hoanghieund/sale-project-sub002/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	op        string
	userID    string
	productID int64
	quantity  int
}

// mockCarts records calls and replays canned results.
type mockCarts struct {
	m     sync.Mutex
	calls []call
	view  *service.CartView
	err   error
}

func (c *mockCarts) record(cl call) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.calls = append(c.calls, cl)
	if cl.userID == "" {
		return service.ErrMissingUser
	}
	return c.err
}

func (c *mockCarts) View(_ context.Context, userID string) (*service.CartView, error) {
	if err := c.record(call{op: "view", userID: userID}); err != nil {
		return nil, err
	}
	return c.view, nil
}

func (c *mockCarts) AddItem(_ context.Context, userID string, productID int64, quantity int) error {
	if quantity < service.MinQuantity || quantity > service.MaxQuantity {
		return service.ErrInvalidQuantity
	}
	return c.record(call{op: "add", userID: userID, productID: productID, quantity: quantity})
}

func (c *mockCarts) UpdateQuantity(_ context.Context, userID string, productID int64, quantity int) error {
	if quantity < service.MinQuantity || quantity > service.MaxQuantity {
		return service.ErrInvalidQuantity
	}
	return c.record(call{op: "update", userID: userID, productID: productID, quantity: quantity})
}

func (c *mockCarts) RemoveItem(_ context.Context, userID string, productID int64) error {
	return c.record(call{op: "remove", userID: userID, productID: productID})
}

func (c *mockCarts) ClearCart(_ context.Context, userID string) error {
	return c.record(call{op: "clear", userID: userID})
}

func (c *mockCarts) recorded() []call {
	c.m.Lock()
	defer c.m.Unlock()
	return append([]call(nil), c.calls...)
}

func sampleView(userID string) *service.CartView {
	price := decimal.RequireFromString("2")
	groups := []domain.ShopGroup{{
		ShopID:   "shop-apparel",
		ShopName: "Threadline",
		Items:    []domain.LineItem{{ProductID: 5, Name: "Crew Tee", Price: &price, Quantity: 3}},
	}}
	return &service.CartView{
		UserID:    userID,
		Groups:    groups,
		Summary:   pricing.CalculateCartSummary(groups),
		ItemCount: 3,
	}
}

type testServer struct {
	handler  http.Handler
	carts    *mockCarts
	redis    *miniredis.Miniredis
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo, err := catalog.NewRepository(":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations("../catalog/migrations"))
	t.Cleanup(func() { repo.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reg := prometheus.NewRegistry()
	carts := &mockCarts{view: sampleView("123")}

	handler := NewRouter(RouterConfig{
		Carts:          carts,
		Catalog:        repo,
		Preferences:    preferences.NewRedisStore(client, zap.NewNop()),
		Log:            zap.NewNop(),
		Metrics:        metrics.NewServerMetrics(reg, "test"),
		Gatherer:       reg,
		RequestTimeout: 5 * time.Second,
	})

	return &testServer{handler: handler, carts: carts, redis: mr, registry: reg}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

