package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerCache stops calling the wrapped cache after repeated failures.
// While the breaker is open, Get reports a miss so reads fall through to
// the repository. Delete always reaches the wrapped cache: a skipped
// invalidation would leave a stale cart behind once the breaker closes.
type BreakerCache struct {
	next CartCache
	cb   *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewBreakerCache(next CartCache, cfg circuitbreaker.Config, log *zap.Logger) *BreakerCache {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrCacheMiss)
	}
	return &BreakerCache{
		next: next,
		cb:   circuitbreaker.New[*domain.Cart]("cart-cache", cfg, log),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := b.cb.Execute(func() (*domain.Cart, error) {
		return b.next.Get(ctx, userID)
	})
	if circuitbreaker.IsOpen(err) {
		return nil, fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}
	return cart, err
}

func (b *BreakerCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	_, err := b.cb.Execute(func() (*domain.Cart, error) {
		return nil, b.next.Set(ctx, userID, cart)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	return b.next.Delete(ctx, userID)
}
