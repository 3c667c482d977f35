package router

import (
	"net/http"

	"github.com/senyabanana/shipquote-service/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers - набор обработчиков, из которых собирается роутер.
type Handlers struct {
	Ping    *handlers.PingHandler
	Catalog *handlers.CatalogHandler
	Routes  *handlers.RouteHandler
	Quotes  *handlers.QuoteHandler
}

// InitRoutes собирает роутер API.
func InitRoutes(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.Ping.Ping)

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", h.Catalog.ListCountries)
			r.Post("/", h.Catalog.CreateCountry)
			r.Get("/{countryId}", h.Catalog.GetCountry)
		})

		r.Route("/ports", func(r chi.Router) {
			r.Get("/", h.Catalog.ListPorts)
			r.Post("/", h.Catalog.CreatePort)
			r.Get("/{portId}", h.Catalog.GetPort)
			r.Put("/{portId}/active", h.Catalog.SetPortActive)
		})

		r.Route("/container-types", func(r chi.Router) {
			r.Get("/", h.Catalog.ListContainerTypes)
			r.Post("/", h.Catalog.CreateContainerType)
			r.Get("/{containerTypeId}", h.Catalog.GetContainerType)
		})

		r.Route("/cargo-types", func(r chi.Router) {
			r.Get("/", h.Catalog.ListCargoTypes)
			r.Post("/", h.Catalog.CreateCargoType)
			r.Get("/{cargoTypeId}", h.Catalog.GetCargoType)
		})

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", h.Routes.ListRoutes)
			r.Post("/", h.Routes.CreateRoute)
			r.Route("/{routeId}", func(r chi.Router) {
				r.Get("/", h.Routes.GetRoute)
				r.Put("/active", h.Routes.SetRouteActive)
				r.Get("/rates", h.Routes.ListRates)
				r.Post("/rates", h.Routes.CreateRate)
				r.Get("/rates/active", h.Routes.ActiveRate)
			})
		})

		r.Route("/rates/{rateId}", func(r chi.Router) {
			r.Get("/", h.Routes.GetRate)
			r.Put("/deactivate", h.Routes.DeactivateRate)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/calculate", h.Quotes.Calculate)
			r.Post("/commit", h.Quotes.Commit)
			r.Get("/", h.Quotes.ListQuotes)
			r.Post("/", h.Quotes.CreateQuote)
			r.Route("/{quoteId}", func(r chi.Router) {
				r.Get("/", h.Quotes.GetQuote)
				r.Put("/status", h.Quotes.UpdateQuoteStatus)
				r.Get("/pdf", h.Quotes.QuotePDF)
				r.Post("/items", h.Quotes.AddItem)
				r.Patch("/items/{itemId}", h.Quotes.UpdateItem)
				r.Delete("/items/{itemId}", h.Quotes.DeleteItem)
			})
		})
	})

	return r
}
