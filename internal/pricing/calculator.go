package pricing

import (
	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultShipping is the flat shipping fee applied when none is configured.
var DefaultShipping = decimal.NewFromInt(1)

var defaultCalculator = NewCalculator(DefaultShipping)

// Calculator prices shop-grouped carts with a flat shipping fee.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	shipping decimal.Decimal
}

func NewCalculator(shipping decimal.Decimal) *Calculator {
	return &Calculator{shipping: shipping}
}

func (c *Calculator) Shipping() decimal.Decimal {
	return c.shipping
}

// TotalPrice sums unit price times quantity over every item of every group.
// Negative prices or quantities are not rejected, and nothing is rounded.
func (c *Calculator) TotalPrice(groups []domain.ShopGroup) decimal.Decimal {
	total := decimal.Zero
	for _, group := range groups {
		for _, item := range group.Items {
			total = total.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return total
}

func (c *Calculator) Summary(groups []domain.ShopGroup) domain.Summary {
	subtotal := c.TotalPrice(groups)
	return domain.Summary{
		Subtotal: subtotal,
		Shipping: c.shipping,
		Total:    subtotal.Add(c.shipping),
	}
}

// CalculateTotalPrice prices groups with the default calculator.
func CalculateTotalPrice(groups []domain.ShopGroup) decimal.Decimal {
	return defaultCalculator.TotalPrice(groups)
}

// CalculateCartSummary summarizes groups with the default shipping fee.
func CalculateCartSummary(groups []domain.ShopGroup) domain.Summary {
	return defaultCalculator.Summary(groups)
}
