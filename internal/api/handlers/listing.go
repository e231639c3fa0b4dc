package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/listing-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/listing-service/internal/utils"
	"github.com/athebyme/gomarket-platform/listing-service/pkg/interfaces"
	pkgutils "github.com/athebyme/gomarket-platform/listing-service/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ListingHandler обработчик запросов для объявлений
type ListingHandler struct {
	listingService     services.ListingServiceInterface
	publicationService services.PublicationServiceInterface
	logger             interfaces.LoggerPort
}

// NewListingHandler создает новый обработчик объявлений
func NewListingHandler(
	listingService services.ListingServiceInterface,
	publicationService services.PublicationServiceInterface,
	logger interfaces.LoggerPort,
) *ListingHandler {
	return &ListingHandler{
		listingService:     listingService,
		publicationService: publicationService,
		logger:             logger,
	}
}

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// createListingRequest тело запроса на создание объявления
type createListingRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Condition   models.Condition `json:"condition"`
	Price       float64          `json:"price"`
	Images      []string         `json:"images"`
}

// imageRequest тело запроса на добавление или удаление изображения
type imageRequest struct {
	ImageURL string `json:"image_url"`
}

// publishRequest тело запроса на размещение объявления
type publishRequest struct {
	MarketplaceIDs []string `json:"marketplace_ids"`
}

// renderError отправляет клиенту ответ с ошибкой
func renderError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{
		Error:   code,
		Code:    status,
		Message: message,
	})
}

// renderServiceError переводит ошибку сервиса в HTTP-ответ
func renderServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, utils.ErrListingNotFound):
		renderError(w, r, http.StatusNotFound, "not_found", "Объявление не найдено")
	case errors.Is(err, utils.ErrImageNotFound):
		renderError(w, r, http.StatusNotFound, "not_found", "Изображение не найдено")
	case errors.Is(err, utils.ErrInvalidListingID):
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
	case errors.Is(err, utils.ErrEmptyTitle):
		renderError(w, r, http.StatusBadRequest, "validation_error", "Название объявления не может быть пустым")
	case errors.Is(err, utils.ErrInvalidCondition):
		renderError(w, r, http.StatusBadRequest, "validation_error", "Недопустимое состояние товара")
	case errors.Is(err, utils.ErrNegativePrice):
		renderError(w, r, http.StatusBadRequest, "validation_error", "Цена не может быть отрицательной")
	case errors.Is(err, utils.ErrEmptyPatch):
		renderError(w, r, http.StatusBadRequest, "validation_error", "Не указано ни одного поля для обновления")
	default:
		renderError(w, r, http.StatusInternalServerError, "internal_error", fallbackMessage)
	}
}

// CreateListing обрабатывает запрос на создание объявления
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "bad_request", "Некорректный формат данных")
		return
	}

	listing := &models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Condition:   req.Condition,
		Price:       req.Price,
		Images:      req.Images,
	}

	created, err := h.listingService.CreateListing(r.Context(), listing)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка создания объявления",
			interfaces.LogField{Key: "error", Value: err.Error()})
		renderServiceError(w, r, err, "Ошибка создания объявления")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response{
		Success: true,
		Data:    created,
	})
}

// GetListing обрабатывает запрос на получение объявления по ID
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	listing, err := h.listingService.GetListing(r.Context(), listingID)
	if err != nil {
		if !errors.Is(err, utils.ErrListingNotFound) {
			h.logger.ErrorWithContext(r.Context(), "Ошибка получения объявления",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		renderServiceError(w, r, err, "Ошибка получения объявления")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    listing,
	})
}

// ListListings обрабатывает запрос на получение списка объявлений
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	listings, total, err := h.listingService.ListListings(r.Context(), page, pageSize)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка получения списка объявлений",
			interfaces.LogField{Key: "error", Value: err.Error()})
		renderError(w, r, http.StatusInternalServerError, "internal_error", "Ошибка получения списка объявлений")
		return
	}

	pagination := pkgutils.NewPagination(page, pageSize, "created_at", true)
	pagination.SetTotal(int64(total))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    listings,
		Meta: map[string]interface{}{
			"pagination": pagination,
		},
	})
}

// UpdateListing обрабатывает запрос на частичное обновление объявления
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	var patch models.ListingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		renderError(w, r, http.StatusBadRequest, "bad_request", "Некорректный формат данных")
		return
	}

	updated, err := h.listingService.UpdateListing(r.Context(), listingID, &patch)
	if err != nil {
		if !errors.Is(err, utils.ErrListingNotFound) {
			h.logger.ErrorWithContext(r.Context(), "Ошибка обновления объявления",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		renderServiceError(w, r, err, "Ошибка обновления объявления")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    updated,
	})
}

// DeleteListing обрабатывает запрос на удаление объявления
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	if err := h.listingService.DeleteListing(r.Context(), listingID); err != nil {
		if !errors.Is(err, utils.ErrListingNotFound) {
			h.logger.ErrorWithContext(r.Context(), "Ошибка удаления объявления",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		renderServiceError(w, r, err, "Ошибка удаления объявления")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data: map[string]interface{}{
			"id":      listingID,
			"deleted": true,
		},
	})
}

// AddImage обрабатывает запрос на добавление изображения к объявлению
func (h *ListingHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "Ссылка на изображение не указана")
		return
	}

	listing, err := h.listingService.AddImage(r.Context(), listingID, req.ImageURL)
	if err != nil {
		if !errors.Is(err, utils.ErrListingNotFound) {
			h.logger.ErrorWithContext(r.Context(), "Ошибка добавления изображения",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		renderServiceError(w, r, err, "Ошибка добавления изображения")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    listing,
	})
}

// RemoveImage обрабатывает запрос на удаление изображения из объявления
func (h *ListingHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "Ссылка на изображение не указана")
		return
	}

	listing, err := h.listingService.RemoveImage(r.Context(), listingID, req.ImageURL)
	if err != nil {
		if !errors.Is(err, utils.ErrListingNotFound) && !errors.Is(err, utils.ErrImageNotFound) {
			h.logger.ErrorWithContext(r.Context(), "Ошибка удаления изображения",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		renderServiceError(w, r, err, "Ошибка удаления изображения")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    listing,
	})
}

// PostToMarketplaces обрабатывает запрос на размещение объявления на маркетплейсах.
// Ответ — агрегированный отчет: частичные отказы возвращаются со статусом 200,
// по одному результату на каждый запрошенный маркетплейс.
func (h *ListingHandler) PostToMarketplaces(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "bad_request", "Некорректный формат данных")
		return
	}

	report, err := h.publicationService.Publish(r.Context(), listingID, req.MarketplaceIDs)
	if err != nil {
		if !errors.Is(err, utils.ErrListingNotFound) {
			h.logger.ErrorWithContext(r.Context(), "Ошибка размещения объявления",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		renderServiceError(w, r, err, "Ошибка размещения объявления")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// ListPostings обрабатывает запрос на получение журнала размещений объявления
func (h *ListingHandler) ListPostings(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		renderError(w, r, http.StatusBadRequest, "bad_request", "ID объявления не указан")
		return
	}

	postings, err := h.publicationService.ListPostings(r.Context(), listingID)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка получения журнала размещений",
			interfaces.LogField{Key: "error", Value: err.Error()})
		renderServiceError(w, r, err, "Ошибка получения журнала размещений")
		return
	}

	if postings == nil {
		postings = []*models.MarketplacePosting{}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    postings,
	})
}
