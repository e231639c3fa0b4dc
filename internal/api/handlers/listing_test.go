package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athebyme/gomarket-platform/listing-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/listing-service/internal/api"
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/listing-service/internal/marketplaces"
	"github.com/athebyme/gomarket-platform/listing-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubListingService реализует ListingServiceInterface с предопределенными ответами
type stubListingService struct {
	listing *models.Listing
	err     error
}

func (s *stubListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	listing.ID = "listing-1"
	return listing, nil
}

func (s *stubListingService) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	return s.listing, s.err
}

func (s *stubListingService) ListListings(ctx context.Context, page, pageSize int) ([]*models.Listing, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	if s.listing == nil {
		return []*models.Listing{}, 0, nil
	}
	return []*models.Listing{s.listing}, 1, nil
}

func (s *stubListingService) UpdateListing(ctx context.Context, listingID string, patch *models.ListingPatch) (*models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	if patch.IsEmpty() {
		return nil, utils.ErrEmptyPatch
	}
	return s.listing, nil
}

func (s *stubListingService) DeleteListing(ctx context.Context, listingID string) error {
	return s.err
}

func (s *stubListingService) AddImage(ctx context.Context, listingID string, imageURL string) (*models.Listing, error) {
	return s.listing, s.err
}

func (s *stubListingService) RemoveImage(ctx context.Context, listingID string, imageURL string) (*models.Listing, error) {
	return s.listing, s.err
}

// stubPublicationService реализует PublicationServiceInterface с предопределенным отчетом
type stubPublicationService struct {
	report   *models.PublicationReport
	postings []*models.MarketplacePosting
	err      error
}

func (s *stubPublicationService) Publish(ctx context.Context, listingID string, marketplaceIDs []string) (*models.PublicationReport, error) {
	return s.report, s.err
}

func (s *stubPublicationService) ListPostings(ctx context.Context, listingID string) ([]*models.MarketplacePosting, error) {
	return s.postings, s.err
}

func newTestRouter(listingStub *stubListingService, publicationStub *stubPublicationService) http.Handler {
	registry := marketplaces.NewRegistry(marketplaces.DefaultCatalog())
	return api.SetupRouter(listingStub, publicationStub, registry, logger.NewNopLogger(), []string{"*"})
}

func TestCreateListingReturnsCreated(t *testing.T) {
	router := newTestRouter(&stubListingService{}, &stubPublicationService{})

	body := bytes.NewBufferString(`{"title":"Гитара","condition":"new","price":300}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var payload struct {
		Success bool           `json:"success"`
		Data    models.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "listing-1", payload.Data.ID)
}

func TestCreateListingInvalidBody(t *testing.T) {
	router := newTestRouter(&stubListingService{}, &stubPublicationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateListingValidationError(t *testing.T) {
	router := newTestRouter(&stubListingService{err: utils.ErrEmptyTitle}, &stubPublicationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/", bytes.NewBufferString(`{"condition":"new"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetListingNotFoundMapsTo404(t *testing.T) {
	router := newTestRouter(&stubListingService{err: utils.ErrListingNotFound}, &stubPublicationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateListingEmptyPatchMapsTo400(t *testing.T) {
	router := newTestRouter(&stubListingService{}, &stubPublicationService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/listings/listing-1", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostToMarketplacesReturnsReport(t *testing.T) {
	report := &models.PublicationReport{
		ListingID: "listing-1",
		Results: []models.PublicationResult{
			{MarketplaceID: "ebay", MarketplaceName: "eBay", Success: true, MarketplaceListingID: "EBAY-1"},
			{MarketplaceID: "mercari", MarketplaceName: "Mercari", Success: false, Error: "Срок авторизации на маркетплейсе истек"},
		},
		TotalPosted: 1,
		TotalFailed: 1,
	}
	router := newTestRouter(&stubListingService{}, &stubPublicationService{report: report})

	body := bytes.NewBufferString(`{"marketplace_ids":["ebay","mercari"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/listing-1/post-to-marketplaces", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Частичный отказ — это не ошибка запроса
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.PublicationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "listing-1", got.ListingID)
	require.Len(t, got.Results, 2)
	assert.True(t, got.Results[0].Success)
	assert.False(t, got.Results[1].Success)
	assert.Equal(t, 1, got.TotalPosted)
	assert.Equal(t, 1, got.TotalFailed)
}

func TestPostToMarketplacesListingNotFound(t *testing.T) {
	router := newTestRouter(&stubListingService{}, &stubPublicationService{err: utils.ErrListingNotFound})

	body := bytes.NewBufferString(`{"marketplace_ids":["ebay"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/missing/post-to-marketplaces", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPostingsReturnsEmptyArray(t *testing.T) {
	router := newTestRouter(&stubListingService{}, &stubPublicationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/listing-1/postings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Success bool                         `json:"success"`
		Data    []*models.MarketplacePosting `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.NotNil(t, payload.Data)
	assert.Empty(t, payload.Data)
}

func TestListMarketplaces(t *testing.T) {
	router := newTestRouter(&stubListingService{}, &stubPublicationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplaces", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Success bool                 `json:"success"`
		Data    []models.Marketplace `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Len(t, payload.Data, 5)
}
