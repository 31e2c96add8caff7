package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Bookings   *BookingHandler
	Catalog    *CatalogHandler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the API router. Middleware wraps the whole router in
// declaration order.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	if cfg.Bookings != nil {
		router.HandleFunc("/bookings", cfg.Bookings.Create).Methods(http.MethodPost)
		router.HandleFunc("/bookings/preview", cfg.Bookings.Preview).Methods(http.MethodPost)
		router.HandleFunc("/bookings/{id}", cfg.Bookings.Get).Methods(http.MethodGet)
		router.HandleFunc("/bookings/{id}", cfg.Bookings.Update).Methods(http.MethodPut)
		router.HandleFunc("/bookings/{id}", cfg.Bookings.Delete).Methods(http.MethodDelete)
	}

	if cfg.Catalog != nil {
		router.HandleFunc("/catalog/services", cfg.Catalog.ListServices).Methods(http.MethodGet)
		router.HandleFunc("/catalog/addons", cfg.Catalog.ListAddons).Methods(http.MethodGet)
		router.HandleFunc("/catalog/members", cfg.Catalog.MemberOptions).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
