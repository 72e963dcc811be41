package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hoanghieund/sale-project-sub002/internal/preferences"
	"github.com/hoanghieund/sale-project-sub002/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Carts          CartService
	Catalog        ProductCatalog
	Preferences    preferences.Store
	Log            *zap.Logger
	Metrics        *metrics.ServerMetrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout, cfg.Log)
	productHandler := NewProductHandler(cfg.Catalog, cfg.RequestTimeout, cfg.Log)
	prefsHandler := NewPreferencesHandler(cfg.Preferences, cfg.RequestTimeout, cfg.Log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware(cfg.Log))
	r.Use(RequestLogger(cfg.Log))
	if cfg.Metrics != nil {
		r.Use(Metrics(cfg.Metrics))
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(UserMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{product_id}", productHandler.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", prefsHandler.Get)
			r.Put("/", prefsHandler.Update)
		})
	})

	return r
}
