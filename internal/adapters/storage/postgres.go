package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/listing-service/internal/utils"
	"github.com/athebyme/gomarket-platform/listing-service/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListingStorageInterface определяет интерфейс взаимодействия с хранилищем PostgreSQL
type ListingStorageInterface interface {
	// Listing методы
	SaveListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	ListListings(ctx context.Context, page, pageSize int) ([]*models.Listing, int, error)
	DeleteListing(ctx context.Context, listingID string) error
	TouchListing(ctx context.Context, listingID string, updatedAt time.Time) error
	AddListingImage(ctx context.Context, listingID string, imageURL string) error
	RemoveListingImage(ctx context.Context, listingID string, imageURL string) error

	// Журнал размещений: только добавление, каждая попытка — отдельная запись
	SavePosting(ctx context.Context, posting *models.MarketplacePosting) error
	ListPostingsByListing(ctx context.Context, listingID string) ([]*models.MarketplacePosting, error)
}

// Port расширяет интерфейс хранилища методами жизненного цикла соединения
type Port interface {
	ListingStorageInterface
	interfaces.StoragePort
}

var _ Port = (*ListingStorage)(nil)

// ListingStorage реализация Port для PostgreSQL
type ListingStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage создает новый экземпляр ListingStorage
func NewPostgresStorage(ctx context.Context, connectionString string) (*ListingStorage, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &ListingStorage{pool: pool}, nil
}

// NewPostgresStorageWithPool создает хранилище поверх готового пула
func NewPostgresStorageWithPool(ctx context.Context, pool *pgxpool.Pool) (*ListingStorage, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &ListingStorage{pool: pool}, nil
}

// Ping проверяет доступность БД
func (r *ListingStorage) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close закрывает соединение с БД
func (r *ListingStorage) Close() error {
	r.pool.Close()
	return nil
}

// SaveListing сохраняет объявление в базу данных.
// Если объявление с таким ID уже существует, оно будет обновлено.
func (r *ListingStorage) SaveListing(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listing.listings (id, title, description, condition, price, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			title = $2,
			description = $3,
			condition = $4,
			price = $5,
			images = $6,
			updated_at = $8
	`

	now := time.Now().UTC()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	if listing.UpdatedAt.IsZero() {
		listing.UpdatedAt = now
	}

	images := listing.Images
	if images == nil {
		images = []string{}
	}

	_, err := r.pool.Exec(ctx, query, listing.ID, listing.Title, listing.Description,
		string(listing.Condition), listing.Price, images, listing.CreatedAt, listing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// GetListing получает объявление по ID.
// Возвращает nil, nil, если объявление не найдено.
func (r *ListingStorage) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	query := `
		SELECT id, title, description, condition, price, images, created_at, updated_at
		FROM listing.listings
		WHERE id = $1
	`

	var listing models.Listing
	var condition string

	row := r.pool.QueryRow(ctx, query, listingID)
	err := row.Scan(&listing.ID, &listing.Title, &listing.Description, &condition,
		&listing.Price, &listing.Images, &listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Объявление не найдено
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	listing.Condition = models.Condition(condition)
	return &listing, nil
}

// ListListings возвращает объявления с пагинацией, новые первыми
func (r *ListingStorage) ListListings(ctx context.Context, page, pageSize int) ([]*models.Listing, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listing.listings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	if total == 0 {
		return []*models.Listing{}, 0, nil
	}

	query := `
		SELECT id, title, description, condition, price, images, created_at, updated_at
		FROM listing.listings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		var listing models.Listing
		var condition string
		err := rows.Scan(&listing.ID, &listing.Title, &listing.Description, &condition,
			&listing.Price, &listing.Images, &listing.CreatedAt, &listing.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listing.Condition = models.Condition(condition)
		listings = append(listings, &listing)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error while iterating listing rows: %w", rows.Err())
	}

	return listings, total, nil
}

// DeleteListing удаляет объявление из хранилища
func (r *ListingStorage) DeleteListing(ctx context.Context, listingID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listing.listings WHERE id = $1`, listingID)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrListingNotFound
	}
	return nil
}

// TouchListing обновляет метку времени последнего изменения объявления
func (r *ListingStorage) TouchListing(ctx context.Context, listingID string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listing.listings SET updated_at = $2 WHERE id = $1`, listingID, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to touch listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrListingNotFound
	}
	return nil
}

// AddListingImage добавляет ссылку на изображение в конец списка изображений
func (r *ListingStorage) AddListingImage(ctx context.Context, listingID string, imageURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listing.listings SET images = array_append(images, $2), updated_at = $3 WHERE id = $1`,
		listingID, imageURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add listing image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrListingNotFound
	}
	return nil
}

// RemoveListingImage удаляет ссылку на изображение из списка
func (r *ListingStorage) RemoveListingImage(ctx context.Context, listingID string, imageURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listing.listings SET images = array_remove(images, $2), updated_at = $3
		 WHERE id = $1 AND $2 = ANY(images)`,
		listingID, imageURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to remove listing image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrImageNotFound
	}
	return nil
}

// SavePosting добавляет запись о попытке размещения в журнал.
// Записи не обновляются: повторная попытка — это новая запись со своим ID,
// поэтому конкурентные вставки по одному объявлению не требуют блокировок.
func (r *ListingStorage) SavePosting(ctx context.Context, posting *models.MarketplacePosting) error {
	if posting.ID == "" {
		posting.ID = uuid.New().String()
	}
	if posting.CreatedAt.IsZero() {
		posting.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO listing.postings (id, listing_id, marketplace_id, marketplace_listing_id,
			status, posted_at, error_message, listing_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query, posting.ID, posting.ListingID, posting.MarketplaceID,
		posting.MarketplaceListingID, string(posting.Status), posting.PostedAt,
		posting.ErrorMessage, posting.ListingURL, posting.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save posting: %w", err)
	}
	return nil
}

// ListPostingsByListing возвращает журнал размещений объявления,
// поздние попытки в конце
func (r *ListingStorage) ListPostingsByListing(ctx context.Context, listingID string) ([]*models.MarketplacePosting, error) {
	query := `
		SELECT id, listing_id, marketplace_id, marketplace_listing_id,
			status, posted_at, error_message, listing_url, created_at
		FROM listing.postings
		WHERE listing_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []*models.MarketplacePosting
	for rows.Next() {
		var posting models.MarketplacePosting
		var status string
		err := rows.Scan(&posting.ID, &posting.ListingID, &posting.MarketplaceID,
			&posting.MarketplaceListingID, &status, &posting.PostedAt,
			&posting.ErrorMessage, &posting.ListingURL, &posting.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		posting.Status = models.PostingStatus(status)
		postings = append(postings, &posting)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating posting rows: %w", rows.Err())
	}

	return postings, nil
}
