package models

import "time"

// PostingStatus описывает статус размещения объявления на маркетплейсе.
// Жизненный цикл: pending -> posted | failed. Из posted и failed переходов нет.
// Статус expired выставляется внешним процессом перепроверки размещений.
type PostingStatus string

const (
	PostingStatusPending PostingStatus = "pending"
	PostingStatusPosted  PostingStatus = "posted"
	PostingStatusFailed  PostingStatus = "failed"
	PostingStatusExpired PostingStatus = "expired"
)

// MarketplacePosting представляет запись об одной попытке размещения одного
// объявления на одном маркетплейсе. Каждая попытка — новая запись, журнал
// размещений ведется только на добавление.
//
// Инвариант: error_message и (marketplace_listing_id, listing_url, posted_at)
// взаимоисключающие — запись никогда не содержит и то и другое.
type MarketplacePosting struct {
	ID                   string        `json:"id"`
	ListingID            string        `json:"listing_id"`
	MarketplaceID        string        `json:"marketplace_id"`
	MarketplaceListingID string        `json:"marketplace_listing_id,omitempty"`
	Status               PostingStatus `json:"status"`
	PostedAt             *time.Time    `json:"posted_at,omitempty"`
	ErrorMessage         string        `json:"error_message,omitempty"`
	ListingURL           string        `json:"listing_url,omitempty"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
}

// PublicationResult представляет итог размещения на одном маркетплейсе
// в составе агрегированного отчета
type PublicationResult struct {
	MarketplaceID        string `json:"marketplace_id"`
	MarketplaceName      string `json:"marketplace_name"`
	Success              bool   `json:"success"`
	MarketplaceListingID string `json:"marketplace_listing_id,omitempty"`
	ListingURL           string `json:"listing_url,omitempty"`
	Error                string `json:"error,omitempty"`
}

// PublicationReport представляет агрегированный отчет о размещении объявления.
// Порядок Results совпадает с порядком запрошенных маркетплейсов после
// дедупликации, счетчики — разбиение Results на успехи и неудачи.
type PublicationReport struct {
	ListingID   string              `json:"listing_id"`
	Results     []PublicationResult `json:"results"`
	TotalPosted int                 `json:"total_posted"`
	TotalFailed int                 `json:"total_failed"`
}
