package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	ShopID      string
	ShopName    string
	Name        string
	Description string
	Price       decimal.Decimal
	PriceSale   decimal.NullDecimal
	ImageURL    string
	CreatedAt   time.Time
}

// LineItem converts the product into a cart line with the given quantity.
func (p *Product) LineItem(quantity int) LineItem {
	price := p.Price
	item := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		Price:     &price,
		Quantity:  quantity,
	}
	if p.PriceSale.Valid {
		sale := p.PriceSale.Decimal
		item.PriceSale = &sale
	}
	return item
}
