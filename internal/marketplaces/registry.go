package marketplaces

import (
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
)

// Registry хранит каталог известных маркетплейсов.
// Каталог фиксируется при создании и дальше только читается,
// поэтому Lookup безопасен для конкурентного использования.
type Registry struct {
	byID    map[string]*models.Marketplace
	ordered []*models.Marketplace
}

// NewRegistry создает реестр из переданного каталога.
// Порядок каталога сохраняется для метода All.
func NewRegistry(catalog []models.Marketplace) *Registry {
	r := &Registry{
		byID:    make(map[string]*models.Marketplace, len(catalog)),
		ordered: make([]*models.Marketplace, 0, len(catalog)),
	}
	for i := range catalog {
		m := catalog[i]
		r.byID[m.ID] = &m
		r.ordered = append(r.ordered, &m)
	}
	return r
}

// Lookup возвращает маркетплейс по идентификатору.
// Для неизвестного идентификатора возвращает (nil, false) вместо ошибки:
// опечатка в одном идентификаторе не должна срывать запрос целиком.
func (r *Registry) Lookup(marketplaceID string) (*models.Marketplace, bool) {
	m, ok := r.byID[marketplaceID]
	return m, ok
}

// All возвращает каталог в исходном порядке
func (r *Registry) All() []*models.Marketplace {
	return r.ordered
}

// DefaultCatalog возвращает стандартный набор поддерживаемых маркетплейсов
func DefaultCatalog() []models.Marketplace {
	return []models.Marketplace{
		{
			ID:           "ebay",
			Name:         "eBay",
			Description:  "Глобальная площадка аукционов и продаж с фиксированной ценой",
			LogoURL:      "/static/logos/ebay.png",
			IsActive:     true,
			RequiresAuth: true,
			AuthStatus:   models.AuthStatusDisconnected,
		},
		{
			ID:           "craigslist",
			Name:         "Craigslist",
			Description:  "Доска локальных объявлений",
			LogoURL:      "/static/logos/craigslist.png",
			IsActive:     true,
			RequiresAuth: false,
			AuthStatus:   models.AuthStatusDisconnected,
		},
		{
			ID:           "facebook",
			Name:         "Facebook Marketplace",
			Description:  "Площадка объявлений внутри социальной сети",
			LogoURL:      "/static/logos/facebook.png",
			IsActive:     true,
			RequiresAuth: true,
			AuthStatus:   models.AuthStatusDisconnected,
		},
		{
			ID:           "offerup",
			Name:         "OfferUp",
			Description:  "Мобильная площадка локальных продаж",
			LogoURL:      "/static/logos/offerup.png",
			IsActive:     true,
			RequiresAuth: true,
			AuthStatus:   models.AuthStatusDisconnected,
		},
		{
			ID:           "mercari",
			Name:         "Mercari",
			Description:  "Площадка продаж с доставкой по стране",
			LogoURL:      "/static/logos/mercari.png",
			IsActive:     true,
			RequiresAuth: true,
			AuthStatus:   models.AuthStatusDisconnected,
		},
	}
}
