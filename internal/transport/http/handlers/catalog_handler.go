package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
	catalogsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/catalog"
	"github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/dto"
	httperrors "github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/errors"
)

type CatalogHandler struct {
	service *catalogsvc.Service
}

func NewCatalogHandler(service *catalogsvc.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ServiceBySlug(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	record, err := h.service.ServiceBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toServiceResponse(record))
}

func (h *CatalogHandler) AllServices(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	records, err := h.service.AllServices(r.Context())
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	response := make([]dto.ServiceResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toServiceResponse(record))
	}

	httperrors.Write(w, http.StatusOK, response)
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid catalog request")
	case errors.Is(err, catalogsvc.ErrServiceNotFound):
		writeNotFound(w, "SERVICE_NOT_FOUND", "service not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to load catalog")
	}
}

func toServiceResponse(record pgrepo.ServiceRecord) dto.ServiceResponse {
	prices := make([]dto.PriceResponse, 0, len(record.Prices))
	for _, price := range record.Prices {
		prices = append(prices, dto.PriceResponse{
			ID:       price.ID,
			Quantity: price.Quantity,
			Bonus:    price.Bonus,
			Price:    price.Price,
		})
	}

	return dto.ServiceResponse{
		ID:     record.ID,
		Slug:   record.Slug,
		Name:   record.Name,
		Prices: prices,
	}
}
