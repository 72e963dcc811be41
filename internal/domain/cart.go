package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the stored cart document. Prices are not stored; they are resolved
// from the catalog every time the cart is viewed.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID int64     `bson:"product_id" json:"product_id"`
	ShopID    string    `bson:"shop_id" json:"shop_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// LineItem is one priced product entry of a shop group.
type LineItem struct {
	ProductID int64            `json:"product_id"`
	Name      string           `json:"name"`
	ImageURL  string           `json:"image_url,omitempty"`
	Price     *decimal.Decimal `json:"price"`
	PriceSale *decimal.Decimal `json:"price_sale,omitempty"`
	Quantity  int              `json:"quantity"`
}

// UnitPrice prefers the sale price, falls back to the list price and
// treats a missing price as zero.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.PriceSale != nil {
		return *li.PriceSale
	}
	if li.Price != nil {
		return *li.Price
	}
	return decimal.Zero
}

// ShopGroup holds the line items of a single shop.
type ShopGroup struct {
	ShopID   string     `json:"shop_id"`
	ShopName string     `json:"shop_name"`
	Items    []LineItem `json:"items"`
}

type Summary struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// MarshalJSON renders amounts with two decimals. Rounding happens here only,
// never in the arithmetic.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal string `json:"subtotal"`
		Shipping string `json:"shipping"`
		Total    string `json:"total"`
	}{
		Subtotal: s.Subtotal.StringFixed(2),
		Shipping: s.Shipping.StringFixed(2),
		Total:    s.Total.StringFixed(2),
	})
}
