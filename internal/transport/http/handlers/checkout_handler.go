package handlers

import (
	"errors"
	"net/http"

	checkoutsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/checkout"
	"github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/dto"
	httperrors "github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/errors"
)

type CheckoutHandler struct {
	service *checkoutsvc.Service
}

func NewCheckoutHandler(service *checkoutsvc.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Create validates the submitted cart and answers with the provider session
// object the frontend redirects to. Provider rejections surface as 400, same
// as validation failures.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CHECKOUT_SERVICE_UNAVAILABLE", "checkout service is unavailable")
		return
	}

	var req dto.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	items := make([]checkoutsvc.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkoutsvc.CartItem{
			ID:   item.ID,
			Slug: item.Slug,
			URL:  item.URL,
		})
	}

	session, err := h.service.CreateSession(r.Context(), items)
	if err != nil {
		if errors.Is(err, checkoutsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid checkout payload")
			return
		}
		writeBadRequest(w, "CHECKOUT_REJECTED", "failed to create checkout session")
		return
	}

	httperrors.Write(w, http.StatusOK, session)
}
