package marketplaces

import (
	"context"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
)

// Outcome представляет итог вызова адаптера для одного маркетплейса.
// Бизнес-отказы (квота, категория, истекшая авторизация) — это Failure-значение,
// а не ошибка: частичный отказ является штатным результатом публикации.
type Outcome struct {
	Success    bool
	ExternalID string
	ListingURL string
	PostedAt   time.Time
	Reason     string
}

// SuccessOutcome собирает успешный итог размещения
func SuccessOutcome(externalID, listingURL string, postedAt time.Time) *Outcome {
	return &Outcome{
		Success:    true,
		ExternalID: externalID,
		ListingURL: listingURL,
		PostedAt:   postedAt,
	}
}

// FailureOutcome собирает бизнес-отказ с причиной
func FailureOutcome(reason string) *Outcome {
	return &Outcome{Reason: reason}
}

// Adapter определяет интерфейс интеграции с конкретным маркетплейсом.
// Оркестратор полиморфен по этому интерфейсу и никогда не ветвится
// по идентификатору маркетплейса.
//
// Вызов пересекает сетевую границу: он может занимать произвольное время
// и обязан быть безопасным для конкурентных вызовов по одному объявлению.
// Ошибка возвращается только для инфраструктурных сбоев (сеть, дефект
// конфигурации); такие ошибки диспетчер оркестратора переводит в Failure.
type Adapter interface {
	Publish(ctx context.Context, listing *models.Listing, marketplace *models.Marketplace) (*Outcome, error)
}
