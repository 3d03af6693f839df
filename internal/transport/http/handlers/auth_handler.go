package handlers

import (
	"encoding/json"
	"net/http"

	authsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/auth"
	"github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/dto"
	httperrors "github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Token(w http.ResponseWriter, _ *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	res, err := h.service.IssueToken()
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to issue token")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TokenResponse{Message: res.Token})
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
