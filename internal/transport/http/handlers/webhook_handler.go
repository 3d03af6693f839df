package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/LV27VELASCO/ApiFamaYa/internal/domain"
	fulfillsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/fulfillment"
)

const maxWebhookBodyBytes = 1 << 16

type WebhookHandler struct {
	fulfillment   *fulfillsvc.Service
	webhookSecret string
	log           *zap.Logger
}

func NewWebhookHandler(fulfillment *fulfillsvc.Service, webhookSecret string, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{
		fulfillment:   fulfillment,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// Stripe handles the payment-provider callback. The signature is verified
// before anything else; no side effect happens on a forged or damaged event.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	if h.fulfillment == nil {
		writeInternal(w, "FULFILLMENT_SERVICE_UNAVAILABLE", "fulfillment service is unavailable")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeBadRequest(w, "WEBHOOK_ERROR", "failed to read webhook payload")
		return
	}

	// The endpoint's pinned API version is whatever the Stripe dashboard says,
	// not whatever the SDK pins; only the signature decides authenticity.
	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		h.log.Warn("webhook signature verification failed", zap.Error(err))
		writeBadRequest(w, "WEBHOOK_SIGNATURE_INVALID", "webhook signature verification failed")
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		writeWebhookOK(w)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		writeBadRequest(w, "WEBHOOK_ERROR", "invalid checkout session payload")
		return
	}

	var orders []domain.OrderPayload
	if raw := session.Metadata["orders"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &orders); err != nil {
			h.log.Warn("webhook metadata decode failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			writeBadRequest(w, "WEBHOOK_ERROR", "invalid orders metadata")
			return
		}
	}

	if _, err := h.fulfillment.DispatchSession(r.Context(), session.ID, orders); err != nil {
		// Answering 5xx makes the provider retry the delivery.
		h.log.Error("session dispatch failed",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		writeInternal(w, "INTERNAL_ERROR", "failed to dispatch session")
		return
	}

	writeWebhookOK(w)
}

func writeWebhookOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
