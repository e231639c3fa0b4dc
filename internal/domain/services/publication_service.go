package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/adapters/messaging"
	"github.com/athebyme/gomarket-platform/listing-service/internal/adapters/storage"
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/listing-service/internal/marketplaces"
	"github.com/athebyme/gomarket-platform/listing-service/internal/utils"
	"github.com/athebyme/gomarket-platform/listing-service/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Причины отказов, формируемые самим оркестратором
const (
	// ReasonMarketplaceNotFound — запрошенный маркетплейс отсутствует в каталоге
	ReasonMarketplaceNotFound = "Marketplace not found"
	// ReasonAdapterFault — инфраструктурный сбой адаптера, приведенный к бизнес-отказу
	ReasonAdapterFault = "Marketplace integration error"
)

var publicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marketplace_publications_total",
	Help: "Итоги размещений объявлений по маркетплейсам",
}, []string{"marketplace", "status"})

// PublicationService оркестрирует размещение одного объявления на нескольких
// маркетплейсах: конкурентный разлет по целям, изоляция отказов, запись
// журнала размещений и агрегированный отчет.
type PublicationService struct {
	repository storage.ListingStorageInterface
	registry   *marketplaces.Registry
	adapter    marketplaces.Adapter
	messaging  interfaces.MessagingPort
	logger     interfaces.LoggerPort
	eventTopic string
}

// NewPublicationService создает новый экземпляр PublicationService
func NewPublicationService(
	repository storage.ListingStorageInterface,
	registry *marketplaces.Registry,
	adapter marketplaces.Adapter,
	messagingClient interfaces.MessagingPort,
	logger interfaces.LoggerPort,
	eventTopic string,
) *PublicationService {
	return &PublicationService{
		repository: repository,
		registry:   registry,
		adapter:    adapter,
		messaging:  messagingClient,
		logger:     logger,
		eventTopic: eventTopic,
	}
}

// Publish размещает объявление на перечисленных маркетплейсах.
//
// Отсутствующее объявление — ошибка уровня запроса (utils.ErrListingNotFound).
// Все остальные отказы — данные: каждый маркетплейс обрабатывается независимо,
// отказ одного не отменяет и не искажает итоги остальных. Порядок Results
// совпадает с порядком запрошенных идентификаторов после дедупликации,
// независимо от того, какой адаптер завершился первым.
func (s *PublicationService) Publish(ctx context.Context, listingID string, marketplaceIDs []string) (*models.PublicationReport, error) {
	if listingID == "" {
		return nil, utils.ErrInvalidListingID
	}

	listing, err := s.repository.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, utils.ErrListingNotFound
	}

	targets := dedupeMarketplaceIDs(marketplaceIDs)
	results := make([]models.PublicationResult, len(targets))

	// Одна горутина на цель. Результат кладется в свою ячейку по индексу,
	// поэтому порядок отчета не зависит от порядка завершения.
	var wg sync.WaitGroup
	for i, marketplaceID := range targets {
		wg.Add(1)
		go func(i int, marketplaceID string) {
			defer wg.Done()
			results[i] = s.publishToMarketplace(ctx, listing, marketplaceID)
		}(i, marketplaceID)
	}
	wg.Wait()

	// Единственное разделяемое изменение: одна метка времени на весь запрос,
	// после присоединения всех горутин
	if err := s.repository.TouchListing(ctx, listingID, time.Now().UTC()); err != nil {
		s.logger.WarnWithContext(ctx, "Не удалось обновить метку времени объявления",
			interfaces.LogField{Key: "listing_id", Value: listingID},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}

	report := &models.PublicationReport{
		ListingID: listingID,
		Results:   results,
	}
	for _, result := range results {
		if result.Success {
			report.TotalPosted++
		} else {
			report.TotalFailed++
		}
	}

	s.publishReportEvent(ctx, report)

	return report, nil
}

// ListPostings возвращает журнал размещений объявления, поздние попытки в конце
func (s *PublicationService) ListPostings(ctx context.Context, listingID string) ([]*models.MarketplacePosting, error) {
	if listingID == "" {
		return nil, utils.ErrInvalidListingID
	}

	postings, err := s.repository.ListPostingsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	return postings, nil
}

// publishToMarketplace выполняет одну единицу работы разлета: поиск в каталоге,
// вызов адаптера и запись в журнал. Всегда возвращает результат, никогда не паникует.
func (s *PublicationService) publishToMarketplace(ctx context.Context, listing *models.Listing, marketplaceID string) models.PublicationResult {
	var outcome *marketplaces.Outcome
	marketplaceName := marketplaceID

	marketplace, found := s.registry.Lookup(marketplaceID)
	if !found {
		// Неизвестный идентификатор: отказ синтезируется без вызова адаптера
		outcome = marketplaces.FailureOutcome(ReasonMarketplaceNotFound)
	} else {
		marketplaceName = marketplace.Name
		outcome = s.invokeAdapter(ctx, listing, marketplace)
	}

	posting := buildPosting(listing.ID, marketplaceID, outcome)
	if err := s.repository.SavePosting(ctx, posting); err != nil {
		// Сбой записи журнала не отменяет уже вычисленный итог размещения
		s.logger.WarnWithContext(ctx, "Не удалось записать размещение в журнал",
			interfaces.LogField{Key: "listing_id", Value: listing.ID},
			interfaces.LogField{Key: "marketplace_id", Value: marketplaceID},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}

	publicationsTotal.WithLabelValues(marketplaceID, string(posting.Status)).Inc()

	return models.PublicationResult{
		MarketplaceID:        marketplaceID,
		MarketplaceName:      marketplaceName,
		Success:              outcome.Success,
		MarketplaceListingID: outcome.ExternalID,
		ListingURL:           outcome.ListingURL,
		Error:                outcome.Reason,
	}
}

// invokeAdapter вызывает адаптер и переводит его инфраструктурные сбои,
// включая панику, в бизнес-отказ с общей причиной: внутренний дефект одного
// адаптера не должен ронять запрос целиком.
func (s *PublicationService) invokeAdapter(ctx context.Context, listing *models.Listing, marketplace *models.Marketplace) (outcome *marketplaces.Outcome) {
	defer func() {
		if rvr := recover(); rvr != nil {
			s.logger.ErrorWithContext(ctx, "Паника в адаптере маркетплейса",
				interfaces.LogField{Key: "marketplace_id", Value: marketplace.ID},
				interfaces.LogField{Key: "panic", Value: rvr})
			outcome = marketplaces.FailureOutcome(ReasonAdapterFault)
		}
	}()

	result, err := s.adapter.Publish(ctx, listing, marketplace)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "Сбой адаптера маркетплейса",
			interfaces.LogField{Key: "marketplace_id", Value: marketplace.ID},
			interfaces.LogField{Key: "error", Value: err.Error()})
		return marketplaces.FailureOutcome(ReasonAdapterFault)
	}
	if result == nil {
		return marketplaces.FailureOutcome(ReasonAdapterFault)
	}
	return result
}

// publishReportEvent отправляет событие о завершенной публикации.
// Отправка fire-and-forget: сбой брокера не влияет на отчет.
func (s *PublicationService) publishReportEvent(ctx context.Context, report *models.PublicationReport) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":  messaging.ListingPublishedEvent,
		"report": report,
	})
	if err != nil {
		return
	}

	if err := s.messaging.PublishWithKey(ctx, s.eventTopic, report.ListingID, payload); err != nil {
		s.logger.WarnWithContext(ctx, "Не удалось отправить событие публикации",
			interfaces.LogField{Key: "listing_id", Value: report.ListingID},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

// buildPosting собирает запись журнала из итога адаптера.
// Поля успеха и сообщение об ошибке взаимоисключающие.
func buildPosting(listingID, marketplaceID string, outcome *marketplaces.Outcome) *models.MarketplacePosting {
	posting := &models.MarketplacePosting{
		ID:            uuid.New().String(),
		ListingID:     listingID,
		MarketplaceID: marketplaceID,
		CreatedAt:     time.Now().UTC(),
	}

	if outcome.Success {
		postedAt := outcome.PostedAt
		posting.Status = models.PostingStatusPosted
		posting.MarketplaceListingID = outcome.ExternalID
		posting.ListingURL = outcome.ListingURL
		posting.PostedAt = &postedAt
	} else {
		posting.Status = models.PostingStatusFailed
		posting.ErrorMessage = outcome.Reason
	}

	return posting
}

// dedupeMarketplaceIDs убирает повторы, сохраняя позицию первого вхождения
func dedupeMarketplaceIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
