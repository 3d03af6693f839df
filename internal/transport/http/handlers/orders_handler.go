package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
	orderssvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/orders"
	"github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/dto"
	httperrors "github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/errors"
)

const orderDateLayout = "2 January 2006"

type OrdersHandler struct {
	service *orderssvc.Service
}

func NewOrdersHandler(service *orderssvc.Service) *OrdersHandler {
	return &OrdersHandler{service: service}
}

func (h *OrdersHandler) BySession(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ORDERS_SERVICE_UNAVAILABLE", "orders service is unavailable")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "session_id is required")
		return
	}

	records, err := h.service.BySession(r.Context(), sessionID)
	if err != nil {
		handleOrdersError(w, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toOrderResponse(record))
	}

	httperrors.Write(w, http.StatusOK, response)
}

func (h *OrdersHandler) Consult(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ORDERS_SERVICE_UNAVAILABLE", "orders service is unavailable")
		return
	}

	codeOrder := r.URL.Query().Get("code_order")
	if codeOrder == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "code_order is required")
		return
	}

	result, err := h.service.ConsultByCode(r.Context(), codeOrder)
	if err != nil {
		handleOrdersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ConsultOrderResponse{
		CodeOrder:  result.Record.CodeOrder,
		Status:     result.Status,
		Remains:    result.Remains,
		StartCount: result.StartCount,
		Slug:       result.Record.Slug,
		Price:      result.Record.Price,
		Quantity:   result.Record.Quantity,
		URL:        result.Record.URL,
		Date:       result.Record.CreatedAt.Format(orderDateLayout),
	})
}

func handleOrdersError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid order lookup request")
	case errors.Is(err, orderssvc.ErrOrderNotFound):
		writeNotFound(w, "ORDER_NOT_FOUND", "order not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to load orders")
	}
}

func toOrderResponse(record pgrepo.OrderRecord) dto.OrderResponse {
	return dto.OrderResponse{
		CodeOrder: record.CodeOrder,
		Slug:      record.Slug,
		URL:       record.URL,
		Quantity:  record.Quantity,
		Price:     record.Price,
		Date:      record.CreatedAt.Format(orderDateLayout),
	}
}
