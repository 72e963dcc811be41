package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/cache"
	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/pricing"
	"github.com/hoanghieund/sale-project-sub002/internal/repository"
	"github.com/hoanghieund/sale-project-sub002/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ProductCatalog is the part of the catalog the cart needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
}

type CartService struct {
	repo       repository.CartRepository
	cache      cache.CartCache
	catalog    ProductCatalog
	calculator *pricing.Calculator
	log        *zap.Logger
	sfg        singleflight.Group // Prevents cache stampede
	fills      fillGuard
}

func NewCartService(
	repo repository.CartRepository,
	cache cache.CartCache,
	catalog ProductCatalog,
	calculator *pricing.Calculator,
	log *zap.Logger,
) *CartService {
	return &CartService{
		repo:       repo,
		cache:      cache,
		catalog:    catalog,
		calculator: calculator,
		log:        log,
	}
}

// CartView is a cart priced against the current catalog.
type CartView struct {
	UserID    string             `json:"user_id"`
	Groups    []domain.ShopGroup `json:"groups"`
	Summary   domain.Summary     `json:"summary"`
	ItemCount int                `json:"item_count"`
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	log := logger.FromContext(ctx, s.log)

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn("cache get failed", zap.String("user_id", userID), zap.Error(err))
		}

		token := s.fills.token(userID)
		cart, err = s.repo.GetCart(ctx, userID)
		if errors.Is(err, repository.ErrCartNotFound) {
			now := time.Now().UTC()
			return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
		}
		if err != nil {
			return nil, err
		}

		go func() {
			filled := s.fills.fill(userID, token, func() {
				setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := s.cache.Set(setCtx, userID, cart); err != nil {
					log.Warn("cache set failed", zap.String("user_id", userID), zap.Error(err))
				}
			})
			if !filled {
				log.Debug("cache fill skipped after invalidation", zap.String("user_id", userID))
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem puts quantity of productID into the cart, replacing any quantity
// already there. The product must exist in the catalog.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) error {
	if err := validate(userID, quantity); err != nil {
		return err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to validate product: %w", err)
	}

	item := domain.CartItem{
		ProductID: product.ID,
		ShopID:    product.ShopID,
		Quantity:  quantity,
	}
	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		logger.FromContext(ctx, s.log).Error("repo add item failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) error {
	if err := validate(userID, quantity); err != nil {
		return err
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, productID, quantity); err != nil {
		logger.FromContext(ctx, s.log).Error("repo update item quantity failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) error {
	if userID == "" {
		return ErrMissingUser
	}

	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		logger.FromContext(ctx, s.log).Error("repo remove item failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingUser
	}

	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			logger.FromContext(ctx, s.log).Error("repo delete cart failed", zap.String("user_id", userID), zap.Error(err))
		}
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// View groups the cart by shop, in the order each shop first appears, and
// prices it. Items whose product left the catalog are skipped.
func (s *CartService) View(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	view := &CartView{UserID: userID, Groups: []domain.ShopGroup{}}
	groupIndex := make(map[string]int)
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			logger.FromContext(ctx, s.log).Warn("cart item references unknown product",
				zap.String("user_id", userID), zap.Int64("product_id", item.ProductID))
			continue
		}

		idx, seen := groupIndex[product.ShopID]
		if !seen {
			idx = len(view.Groups)
			groupIndex[product.ShopID] = idx
			view.Groups = append(view.Groups, domain.ShopGroup{ShopID: product.ShopID, ShopName: product.ShopName})
		}
		view.Groups[idx].Items = append(view.Groups[idx].Items, product.LineItem(item.Quantity))
		view.ItemCount += item.Quantity
	}

	view.Summary = s.calculator.Summary(view.Groups)
	return view, nil
}

func (s *CartService) invalidateCache(ctx context.Context, userID string) {
	s.fills.invalidate(userID, func() {
		delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := s.cache.Delete(delCtx, userID); err != nil {
			logger.FromContext(ctx, s.log).Warn("cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
		}
	})
}

func validate(userID string, quantity int) error {
	if userID == "" {
		return ErrMissingUser
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}
