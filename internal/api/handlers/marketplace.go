package handlers

import (
	"net/http"

	"github.com/athebyme/gomarket-platform/listing-service/internal/marketplaces"
	"github.com/athebyme/gomarket-platform/listing-service/pkg/interfaces"
	"github.com/go-chi/render"
)

// MarketplaceHandler обработчик запросов для каталога маркетплейсов
type MarketplaceHandler struct {
	registry *marketplaces.Registry
	logger   interfaces.LoggerPort
}

// NewMarketplaceHandler создает новый обработчик каталога маркетплейсов
func NewMarketplaceHandler(registry *marketplaces.Registry, logger interfaces.LoggerPort) *MarketplaceHandler {
	return &MarketplaceHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListMarketplaces возвращает каталог поддерживаемых маркетплейсов
func (h *MarketplaceHandler) ListMarketplaces(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    h.registry.All(),
	})
}
