package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductCatalog interface {
	ListProducts(ctx context.Context, page pagination.Page) ([]*domain.Product, int, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type ProductHandler struct {
	catalog ProductCatalog
	timeout time.Duration
	log     *zap.Logger
}

func NewProductHandler(catalog ProductCatalog, timeout time.Duration, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
		log:     log,
	}
}

type ProductResponse struct {
	ID          int64            `json:"id"`
	ShopID      string           `json:"shop_id"`
	ShopName    string           `json:"shop_name"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	PriceSale   *decimal.Decimal `json:"price_sale,omitempty"`
	ImageURL    string           `json:"image_url"`
}

type ProductsResponse struct {
	Products   []ProductResponse       `json:"products"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	TotalCount int                     `json:"total_count"`
	TotalPages int                     `json:"total_pages"`
	Pagination []pagination.Descriptor `json:"pagination"`
}

// List serves one page of the catalog together with the page selector
// descriptors for it. page and per_page are optional; a page past the end
// is served as the last page.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	number, err := intQuery(r, "page")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	perPage, err := intQuery(r, "per_page")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	page := pagination.Page{Number: number, PerPage: perPage}.Normalize()

	products, total, err := h.catalog.ListProducts(ctx, page)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	// Past the last page: serve the last page, matching the clamped selector.
	if last := pagination.TotalPages(total, page.PerPage); last > 0 && page.Number > last {
		page.Number = last
		products, total, err = h.catalog.ListProducts(ctx, page)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	res := pagination.NewResult(products, total, page)
	out := make([]ProductResponse, len(res.Items))
	for i, p := range res.Items {
		out[i] = toProductResponse(p)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{
		Products:   out,
		Page:       res.Page,
		PerPage:    res.PerPage,
		TotalCount: res.TotalCount,
		TotalPages: res.TotalPages,
		Pagination: res.Controls,
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := productIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

func toProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		ShopID:      p.ShopID,
		ShopName:    p.ShopName,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}
	if p.PriceSale.Valid {
		sale := p.PriceSale.Decimal
		resp.PriceSale = &sale
	}
	return resp
}
