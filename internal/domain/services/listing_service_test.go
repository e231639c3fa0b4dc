package services

import (
	"context"
	"testing"

	"github.com/athebyme/gomarket-platform/listing-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/listing-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListingFixture(t *testing.T) (*ListingService, *memoryStorage, *memoryCache) {
	t.Helper()
	store := newMemoryStorage()
	cache := newMemoryCache()
	service := NewListingService(store, cache, &memoryMessaging{}, logger.NewNopLogger(), "listing-events")
	return service, store, cache
}

func TestCreateListingFillsDefaults(t *testing.T) {
	service, _, _ := newListingFixture(t)

	created, err := service.CreateListing(context.Background(), &models.Listing{
		Title:     "Гитара",
		Condition: models.ConditionLikeNew,
		Price:     300,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.NotNil(t, created.Images)
	assert.Empty(t, created.Images)
}

func TestCreateListingValidation(t *testing.T) {
	service, _, _ := newListingFixture(t)
	ctx := context.Background()

	_, err := service.CreateListing(ctx, &models.Listing{Condition: models.ConditionNew})
	assert.ErrorIs(t, err, utils.ErrEmptyTitle)

	_, err = service.CreateListing(ctx, &models.Listing{Title: "Гитара", Condition: "broken"})
	assert.ErrorIs(t, err, utils.ErrInvalidCondition)

	_, err = service.CreateListing(ctx, &models.Listing{Title: "Гитара", Condition: models.ConditionNew, Price: -1})
	assert.ErrorIs(t, err, utils.ErrNegativePrice)
}

func TestGetListingUsesCacheOnSecondRead(t *testing.T) {
	service, store, _ := newListingFixture(t)
	ctx := context.Background()

	created, err := service.CreateListing(ctx, &models.Listing{
		Title:     "Гитара",
		Condition: models.ConditionNew,
		Price:     300,
	})
	require.NoError(t, err)

	first, err := service.GetListing(ctx, created.ID)
	require.NoError(t, err)
	callsAfterFirst := store.getCalls

	second, err := service.GetListing(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, callsAfterFirst, store.getCalls, "повторное чтение должно идти из кэша")
}

func TestGetListingNotFound(t *testing.T) {
	service, _, _ := newListingFixture(t)

	_, err := service.GetListing(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrListingNotFound)
}

func TestUpdateListingAppliesPatch(t *testing.T) {
	service, _, _ := newListingFixture(t)
	ctx := context.Background()

	created, err := service.CreateListing(ctx, &models.Listing{
		Title:       "Гитара",
		Description: "Шестиструнная",
		Condition:   models.ConditionNew,
		Price:       300,
	})
	require.NoError(t, err)

	newPrice := 250.0
	updated, err := service.UpdateListing(ctx, created.ID, &models.ListingPatch{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 250.0, updated.Price)
	// Поля вне патча не затрагиваются
	assert.Equal(t, "Гитара", updated.Title)
	assert.Equal(t, "Шестиструнная", updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestUpdateListingEmptyPatch(t *testing.T) {
	service, _, _ := newListingFixture(t)

	_, err := service.UpdateListing(context.Background(), "listing-1", &models.ListingPatch{})
	assert.ErrorIs(t, err, utils.ErrEmptyPatch)
}

func TestUpdateListingNotFound(t *testing.T) {
	service, _, _ := newListingFixture(t)

	title := "Другое название"
	_, err := service.UpdateListing(context.Background(), "missing", &models.ListingPatch{Title: &title})
	assert.ErrorIs(t, err, utils.ErrListingNotFound)
}

func TestUpdateListingInvalidatesCache(t *testing.T) {
	service, _, cache := newListingFixture(t)
	ctx := context.Background()

	created, err := service.CreateListing(ctx, &models.Listing{
		Title:     "Гитара",
		Condition: models.ConditionNew,
		Price:     300,
	})
	require.NoError(t, err)

	_, err = service.GetListing(ctx, created.ID)
	require.NoError(t, err)

	newPrice := 100.0
	_, err = service.UpdateListing(ctx, created.ID, &models.ListingPatch{Price: &newPrice})
	require.NoError(t, err)

	cache.mu.Lock()
	_, stale := cache.data["listing:"+created.ID]
	cache.mu.Unlock()
	assert.False(t, stale, "кэш должен быть инвалидирован после обновления")

	fresh, err := service.GetListing(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, fresh.Price)
}

func TestDeleteListing(t *testing.T) {
	service, _, _ := newListingFixture(t)
	ctx := context.Background()

	created, err := service.CreateListing(ctx, &models.Listing{
		Title:     "Гитара",
		Condition: models.ConditionNew,
		Price:     300,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteListing(ctx, created.ID))

	_, err = service.GetListing(ctx, created.ID)
	assert.ErrorIs(t, err, utils.ErrListingNotFound)

	assert.ErrorIs(t, service.DeleteListing(ctx, created.ID), utils.ErrListingNotFound)
}

func TestAddAndRemoveImage(t *testing.T) {
	service, _, _ := newListingFixture(t)
	ctx := context.Background()

	created, err := service.CreateListing(ctx, &models.Listing{
		Title:     "Гитара",
		Condition: models.ConditionNew,
		Price:     300,
	})
	require.NoError(t, err)

	withImage, err := service.AddImage(ctx, created.ID, "https://img.example.com/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example.com/1.jpg"}, withImage.Images)

	withoutImage, err := service.RemoveImage(ctx, created.ID, "https://img.example.com/1.jpg")
	require.NoError(t, err)
	assert.Empty(t, withoutImage.Images)

	_, err = service.RemoveImage(ctx, created.ID, "https://img.example.com/missing.jpg")
	assert.ErrorIs(t, err, utils.ErrImageNotFound)
}
