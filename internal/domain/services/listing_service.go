package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/adapters/messaging"
	"github.com/athebyme/gomarket-platform/listing-service/internal/adapters/storage"
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/listing-service/internal/utils"
	pkgerrors "github.com/athebyme/gomarket-platform/listing-service/pkg/errors"
	"github.com/athebyme/gomarket-platform/listing-service/pkg/interfaces"
	"github.com/google/uuid"
)

const listingCacheTTL = 30 * time.Minute

// ListingService предоставляет методы для работы с объявлениями
type ListingService struct {
	repository storage.ListingStorageInterface
	cache      interfaces.CachePort
	messaging  interfaces.MessagingPort
	logger     interfaces.LoggerPort
	eventTopic string
}

// NewListingService создает новый экземпляр ListingService
func NewListingService(
	repository storage.ListingStorageInterface,
	cache interfaces.CachePort,
	messagingClient interfaces.MessagingPort,
	logger interfaces.LoggerPort,
	eventTopic string,
) *ListingService {
	return &ListingService{
		repository: repository,
		cache:      cache,
		messaging:  messagingClient,
		logger:     logger,
		eventTopic: eventTopic,
	}
}

// CreateListing создает новое объявление
func (s *ListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.Images == nil {
		listing.Images = []string{}
	}

	if err := s.repository.SaveListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	s.publishListingEvent(ctx, messaging.ListingCreatedEvent, listing)

	return listing, nil
}

// GetListing получает объявление по ID, сначала проверяя кэш.
// Возвращает utils.ErrListingNotFound, если объявление не найдено.
func (s *ListingService) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	if listingID == "" {
		return nil, utils.ErrInvalidListingID
	}

	cacheKey := listingCacheKey(listingID)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var listing models.Listing
		if err = json.Unmarshal(cached, &listing); err == nil {
			return &listing, nil
		}
	} else if !errors.Is(err, pkgerrors.ErrCacheMiss) {
		s.logger.WarnWithContext(ctx, "Ошибка чтения из кэша",
			interfaces.LogField{Key: "key", Value: cacheKey},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}

	listing, err := s.repository.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, utils.ErrListingNotFound
	}

	s.cacheListing(ctx, listing)

	return listing, nil
}

// ListListings возвращает страницу объявлений и общее их количество, новые первыми
func (s *ListingService) ListListings(ctx context.Context, page, pageSize int) ([]*models.Listing, int, error) {
	listings, total, err := s.repository.ListListings(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, total, nil
}

// UpdateListing применяет частичное обновление к объявлению.
// Пустой патч — ошибка, nil-поля патча не меняют сохраненные значения.
func (s *ListingService) UpdateListing(ctx context.Context, listingID string, patch *models.ListingPatch) (*models.Listing, error) {
	if listingID == "" {
		return nil, utils.ErrInvalidListingID
	}
	if patch == nil || patch.IsEmpty() {
		return nil, utils.ErrEmptyPatch
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	existing, err := s.repository.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if existing == nil {
		return nil, utils.ErrListingNotFound
	}

	updated := patch.ApplyTo(*existing)
	updated.UpdatedAt = time.Now().UTC()

	if err = s.repository.SaveListing(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	s.invalidateListing(ctx, listingID)
	s.publishListingEvent(ctx, messaging.ListingUpdatedEvent, &updated)

	return &updated, nil
}

// DeleteListing удаляет объявление
func (s *ListingService) DeleteListing(ctx context.Context, listingID string) error {
	if listingID == "" {
		return utils.ErrInvalidListingID
	}

	if err := s.repository.DeleteListing(ctx, listingID); err != nil {
		if errors.Is(err, utils.ErrListingNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.invalidateListing(ctx, listingID)
	s.publishListingEvent(ctx, messaging.ListingDeletedEvent, &models.Listing{ID: listingID})

	return nil
}

// AddImage добавляет ссылку на изображение к объявлению
func (s *ListingService) AddImage(ctx context.Context, listingID string, imageURL string) (*models.Listing, error) {
	if listingID == "" {
		return nil, utils.ErrInvalidListingID
	}
	if imageURL == "" {
		return nil, utils.ErrImageNotFound
	}

	if err := s.repository.AddListingImage(ctx, listingID, imageURL); err != nil {
		if errors.Is(err, utils.ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add listing image: %w", err)
	}

	s.invalidateListing(ctx, listingID)

	return s.reloadListing(ctx, listingID)
}

// RemoveImage удаляет ссылку на изображение из объявления
func (s *ListingService) RemoveImage(ctx context.Context, listingID string, imageURL string) (*models.Listing, error) {
	if listingID == "" {
		return nil, utils.ErrInvalidListingID
	}

	if err := s.repository.RemoveListingImage(ctx, listingID, imageURL); err != nil {
		if errors.Is(err, utils.ErrImageNotFound) || errors.Is(err, utils.ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to remove listing image: %w", err)
	}

	s.invalidateListing(ctx, listingID)

	return s.reloadListing(ctx, listingID)
}

// reloadListing перечитывает объявление после изменения
func (s *ListingService) reloadListing(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := s.repository.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, utils.ErrListingNotFound
	}
	return listing, nil
}

// cacheListing сохраняет объявление в кэше, сбой кэша не фатален
func (s *ListingService) cacheListing(ctx context.Context, listing *models.Listing) {
	data, err := json.Marshal(listing)
	if err != nil {
		return
	}
	if err = s.cache.Set(ctx, listingCacheKey(listing.ID), data, listingCacheTTL); err != nil {
		s.logger.WarnWithContext(ctx, "Ошибка записи в кэш",
			interfaces.LogField{Key: "listing_id", Value: listing.ID},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

// invalidateListing убирает объявление из кэша
func (s *ListingService) invalidateListing(ctx context.Context, listingID string) {
	if err := s.cache.Delete(ctx, listingCacheKey(listingID)); err != nil {
		s.logger.WarnWithContext(ctx, "Ошибка инвалидации кэша",
			interfaces.LogField{Key: "listing_id", Value: listingID},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

// publishListingEvent отправляет событие жизненного цикла объявления
func (s *ListingService) publishListingEvent(ctx context.Context, event string, listing *models.Listing) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"listing": listing,
	})
	if err != nil {
		return
	}

	if err = s.messaging.PublishWithKey(ctx, s.eventTopic, listing.ID, payload); err != nil {
		s.logger.WarnWithContext(ctx, "Не удалось отправить событие объявления",
			interfaces.LogField{Key: "event", Value: event},
			interfaces.LogField{Key: "listing_id", Value: listing.ID},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

func listingCacheKey(listingID string) string {
	return fmt.Sprintf("listing:%s", listingID)
}

func validateListing(listing *models.Listing) error {
	if listing.Title == "" {
		return utils.ErrEmptyTitle
	}
	if !listing.Condition.Valid() {
		return utils.ErrInvalidCondition
	}
	if listing.Price < 0 {
		return utils.ErrNegativePrice
	}
	return nil
}

func validatePatch(patch *models.ListingPatch) error {
	if patch.Title != nil && *patch.Title == "" {
		return utils.ErrEmptyTitle
	}
	if patch.Condition != nil && !patch.Condition.Valid() {
		return utils.ErrInvalidCondition
	}
	if patch.Price != nil && *patch.Price < 0 {
		return utils.ErrNegativePrice
	}
	return nil
}
