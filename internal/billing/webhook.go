package billing

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"

	"curriculum-backend/internal/shared/server/respond"
	"curriculum-backend/internal/shared/telemetry"
)

// Stripe caps event payloads well under this.
const maxWebhookBytes = 1 << 20

// WebhookHandler receives Stripe events. It is mounted outside the
// authenticated group; the signature header is the only credential.
type WebhookHandler struct {
	svc           *Service
	webhookSecret string
}

func NewWebhookHandler(svc *Service, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{svc: svc, webhookSecret: webhookSecret}
}

// RegisterRoutes attaches the webhook route to the router group.
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook", h.handle)
}

func (h *WebhookHandler) handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_payload", "Could not read request body", nil)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		respond.Error(c, http.StatusBadRequest, "missing_signature", "No signature provided", nil)
		return
	}

	event, err := webhook.ConstructEvent(payload, signature, h.webhookSecret)
	if err != nil {
		telemetry.Error("webhook signature verification failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadRequest, "invalid_signature", "Invalid signature", nil)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			telemetry.Error("webhook payload parse failed", map[string]any{"eventId": event.ID, "error": err.Error()})
			respond.Error(c, http.StatusBadRequest, "invalid_payload", "Malformed event payload", nil)
			return
		}

		accountID := session.Metadata["userId"]
		credits, _ := strconv.Atoi(session.Metadata["credits"])
		if accountID == "" || credits <= 0 {
			// Not a credit purchase we know how to apply; ack so Stripe stops retrying.
			telemetry.Error("webhook session missing metadata", map[string]any{"sessionId": session.ID})
			respond.OK(c, gin.H{"received": true})
			return
		}

		if err := h.svc.ApplyCompletedSession(c.Request.Context(), accountID, session.ID, credits, session.AmountTotal); err != nil {
			telemetry.Error("webhook credit grant failed", map[string]any{
				"accountId": accountID,
				"sessionId": session.ID,
				"error":     err.Error(),
			})
			respond.Error(c, http.StatusInternalServerError, "webhook_failed", "Webhook handler failed", nil)
			return
		}

	case "checkout.session.expired":
		telemetry.Info("checkout session expired", map[string]any{"eventId": event.ID})

	default:
		telemetry.Info("unhandled webhook event", map[string]any{"eventType": event.Type})
	}

	respond.OK(c, gin.H{"received": true})
}
