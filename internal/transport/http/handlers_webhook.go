package httptransport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"streamgate/internal/payment"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
)

// SignatureHeader carries the provider's hex-encoded HMAC over the raw body.
const SignatureHeader = "X-Webhook-Signature"

type webhookPayload struct {
	UserID      string `json:"userId"`
	ProviderRef string `json:"providerRef"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Plan        string `json:"plan"`
}

// handlePaymentWebhook verifies the inbound signature before trusting any
// payment-status update. The body is read raw first; the signature covers
// the exact bytes on the wire.
func (h *Handler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	if !payment.VerifySignature(h.webhookSecret, body, r.Header.Get(SignatureHeader)) {
		h.observeWebhook("rejected")
		h.logger.WarnContext(r.Context(), "webhook signature rejected",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.observeWebhook("invalid")
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	rec := &payment.Record{
		ID:          uuid.NewString(),
		UserID:      payload.UserID,
		ProviderRef: payload.ProviderRef,
		AmountCents: payload.AmountCents,
		Currency:    payload.Currency,
		Status:      payload.Status,
		Plan:        payload.Plan,
	}
	if err := h.payments.Apply(r.Context(), rec); err != nil {
		h.observeWebhook("invalid")
		writeError(w, err)
		return
	}

	h.observeWebhook("accepted")
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) observeWebhook(result string) {
	if h.metrics != nil {
		h.metrics.WebhooksTotal.WithLabelValues(result).Inc()
	}
}
