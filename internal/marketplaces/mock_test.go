package marketplaces

import (
	"context"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockFixture(successRate float64) (*MockAdapter, *models.Listing, *models.Marketplace) {
	adapter := NewMockAdapter(MockAdapterConfig{
		SuccessRate: successRate,
		MinLatency:  time.Millisecond,
		MaxLatency:  2 * time.Millisecond,
		Seed:        42,
	})
	listing := &models.Listing{ID: "listing-1", Title: "Гитара"}
	marketplace := &models.Marketplace{ID: "ebay", Name: "eBay"}
	return adapter, listing, marketplace
}

func TestMockAdapterAlwaysSucceeds(t *testing.T) {
	adapter, listing, marketplace := mockFixture(1.0)

	for i := 0; i < 20; i++ {
		outcome, err := adapter.Publish(context.Background(), listing, marketplace)
		require.NoError(t, err)
		require.True(t, outcome.Success)
		assert.Contains(t, outcome.ExternalID, "EBAY-")
		assert.Contains(t, outcome.ListingURL, "https://ebay.example.com/listings/")
		assert.False(t, outcome.PostedAt.IsZero())
		assert.Empty(t, outcome.Reason)
	}
}

func TestMockAdapterAlwaysFails(t *testing.T) {
	// Отрицательная доля успеха означает гарантированный отказ
	adapter, listing, marketplace := mockFixture(-1)

	for i := 0; i < 20; i++ {
		outcome, err := adapter.Publish(context.Background(), listing, marketplace)
		require.NoError(t, err)
		require.False(t, outcome.Success)
		assert.Contains(t, mockFailureReasons, outcome.Reason)
		assert.Empty(t, outcome.ExternalID)
		assert.Empty(t, outcome.ListingURL)
	}
}

func TestMockAdapterSeedIsDeterministic(t *testing.T) {
	first, listing, marketplace := mockFixture(0.5)
	second, _, _ := mockFixture(0.5)

	for i := 0; i < 50; i++ {
		a, err := first.Publish(context.Background(), listing, marketplace)
		require.NoError(t, err)
		b, err := second.Publish(context.Background(), listing, marketplace)
		require.NoError(t, err)

		assert.Equal(t, a.Success, b.Success)
		assert.Equal(t, a.Reason, b.Reason)
	}
}

func TestMockAdapterRespectsContextCancel(t *testing.T) {
	adapter := NewMockAdapter(MockAdapterConfig{
		SuccessRate: 1.0,
		MinLatency:  time.Second,
		MaxLatency:  2 * time.Second,
		Seed:        1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	outcome, err := adapter.Publish(ctx, &models.Listing{ID: "listing-1"}, &models.Marketplace{ID: "ebay"})
	require.Error(t, err)
	assert.Nil(t, outcome)
}
