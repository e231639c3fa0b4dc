package marketplaces

import (
	"testing"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry(DefaultCatalog())

	marketplace, ok := registry.Lookup("ebay")
	require.True(t, ok)
	assert.Equal(t, "eBay", marketplace.Name)

	_, ok = registry.Lookup("bogus")
	assert.False(t, ok)

	_, ok = registry.Lookup("")
	assert.False(t, ok)
}

func TestRegistryAllPreservesCatalogOrder(t *testing.T) {
	catalog := []models.Marketplace{
		{ID: "second", Name: "Second"},
		{ID: "first", Name: "First"},
	}
	registry := NewRegistry(catalog)

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].ID)
	assert.Equal(t, "first", all[1].ID)
}

func TestDefaultCatalog(t *testing.T) {
	registry := NewRegistry(DefaultCatalog())

	for _, id := range []string{"ebay", "craigslist", "facebook", "offerup", "mercari"} {
		marketplace, ok := registry.Lookup(id)
		require.True(t, ok, id)
		assert.True(t, marketplace.IsActive)
		assert.NotEmpty(t, marketplace.Name)
	}
}
