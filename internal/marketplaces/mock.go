package marketplaces

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/google/uuid"
)

// Причины бизнес-отказов, которые имитирует мок-адаптер
var mockFailureReasons = []string{
	"Категория товара не поддерживается маркетплейсом",
	"Цена ниже минимально допустимой для площадки",
	"Срок авторизации на маркетплейсе истек",
	"Формат изображения не поддерживается",
	"Содержимое объявления нарушает правила площадки",
}

// MockAdapterConfig настраивает поведение мок-адаптера
type MockAdapterConfig struct {
	SuccessRate float64       // доля успешных размещений, [0..1]
	MinLatency  time.Duration // нижняя граница имитируемой задержки
	MaxLatency  time.Duration // верхняя граница имитируемой задержки
	Seed        int64         // сид генератора, 0 — от текущего времени
}

// MockAdapter имитирует интеграцию с маркетплейсом: искусственная задержка
// и случайный итог с фиксированным набором бизнес-причин отказа.
// Существует только для обкатки контракта Adapter, пока нет реальных интеграций.
type MockAdapter struct {
	cfg MockAdapterConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockAdapter создает мок-адаптер с указанной конфигурацией
func NewMockAdapter(cfg MockAdapterConfig) *MockAdapter {
	if cfg.SuccessRate == 0 {
		cfg.SuccessRate = 0.9
	}
	if cfg.MinLatency <= 0 {
		cfg.MinLatency = 100 * time.Millisecond
	}
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency + 400*time.Millisecond
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockAdapter{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Publish имитирует размещение объявления на маркетплейсе
func (a *MockAdapter) Publish(ctx context.Context, listing *models.Listing, marketplace *models.Marketplace) (*Outcome, error) {
	delay, success, reason := a.roll()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if !success {
		return FailureOutcome(reason), nil
	}

	externalID := fmt.Sprintf("%s-%s", strings.ToUpper(marketplace.ID), uuid.New().String()[:8])
	listingURL := fmt.Sprintf("https://%s.example.com/listings/%s", marketplace.ID, externalID)
	return SuccessOutcome(externalID, listingURL, time.Now().UTC()), nil
}

// roll выбирает задержку и итог под общим генератором.
// rand.Rand не потокобезопасен, вызовы по разным маркетплейсам идут конкурентно.
func (a *MockAdapter) roll() (time.Duration, bool, string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	spread := a.cfg.MaxLatency - a.cfg.MinLatency
	delay := a.cfg.MinLatency
	if spread > 0 {
		delay += time.Duration(a.rng.Int63n(int64(spread)))
	}

	success := a.rng.Float64() < a.cfg.SuccessRate
	var reason string
	if !success {
		reason = mockFailureReasons[a.rng.Intn(len(mockFailureReasons))]
	}
	return delay, success, reason
}
