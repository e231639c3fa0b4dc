package services

import (
	"context"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
)

// ListingServiceInterface определяет интерфейс сервиса объявлений
type ListingServiceInterface interface {
	CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	ListListings(ctx context.Context, page, pageSize int) ([]*models.Listing, int, error)
	UpdateListing(ctx context.Context, listingID string, patch *models.ListingPatch) (*models.Listing, error)
	DeleteListing(ctx context.Context, listingID string) error
	AddImage(ctx context.Context, listingID string, imageURL string) (*models.Listing, error)
	RemoveImage(ctx context.Context, listingID string, imageURL string) (*models.Listing, error)
}

// PublicationServiceInterface определяет интерфейс сервиса размещения на маркетплейсах
type PublicationServiceInterface interface {
	Publish(ctx context.Context, listingID string, marketplaceIDs []string) (*models.PublicationReport, error)
	ListPostings(ctx context.Context, listingID string) ([]*models.MarketplacePosting, error)
}

var (
	_ ListingServiceInterface     = (*ListingService)(nil)
	_ PublicationServiceInterface = (*PublicationService)(nil)
)
