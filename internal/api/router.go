package api

import (
	"net/http"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/api/handlers"
	"github.com/athebyme/gomarket-platform/listing-service/internal/api/middleware"
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/listing-service/internal/marketplaces"
	"github.com/athebyme/gomarket-platform/listing-service/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter настраивает маршрутизатор
func SetupRouter(
	listingService services.ListingServiceInterface,
	publicationService services.PublicationServiceInterface,
	registry *marketplaces.Registry,
	logger interfaces.LoggerPort,
	corsAllowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsAllowedOrigins))
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics)

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		listingHandler := handlers.NewListingHandler(listingService, publicationService, logger)
		marketplaceHandler := handlers.NewMarketplaceHandler(registry, logger)

		// Каталог маркетплейсов
		r.Get("/marketplaces", marketplaceHandler.ListMarketplaces)

		// Маршруты для объявлений
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", listingHandler.ListListings)
			r.Post("/", listingHandler.CreateListing)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", listingHandler.GetListing)
				r.Patch("/", listingHandler.UpdateListing)
				r.Delete("/", listingHandler.DeleteListing)

				// Управление изображениями
				r.Post("/images", listingHandler.AddImage)
				r.Delete("/images", listingHandler.RemoveImage)

				// Размещение на маркетплейсах и журнал размещений
				r.Post("/post-to-marketplaces", listingHandler.PostToMarketplaces)
				r.Get("/postings", listingHandler.ListPostings)
			})
		})
	})

	return r
}
